package system_settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type stubStore struct {
	setting models.SystemSetting
	err     error
}

func (s *stubStore) FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.SystemSetting, error) {
	return s.setting, s.err
}

func TestGetSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored value wins", func(t *testing.T) {
		repo := NewSystemSettingsRepositoryWithStore(&stubStore{
			setting: models.SystemSetting{Key: consts.SettingPreApprovalDelayHours, Value: "6"},
		})

		value, err := repo.GetSetting(ctx, consts.SettingPreApprovalDelayHours, consts.DefaultPreApprovalDelayHours)
		assert.NoError(t, err)
		assert.Equal(t, "6", value)
	})

	t.Run("Absent key falls back to default", func(t *testing.T) {
		repo := NewSystemSettingsRepositoryWithStore(&stubStore{err: mongo.ErrNoDocuments})

		value, err := repo.GetSetting(ctx, consts.SettingPreApprovalDelayHours, consts.DefaultPreApprovalDelayHours)
		assert.NoError(t, err)
		assert.Equal(t, consts.DefaultPreApprovalDelayHours, value)
	})

	t.Run("Empty stored value falls back to default", func(t *testing.T) {
		repo := NewSystemSettingsRepositoryWithStore(&stubStore{
			setting: models.SystemSetting{Key: consts.SettingAutomationEnabled, Value: ""},
		})

		value, err := repo.GetSetting(ctx, consts.SettingAutomationEnabled, "1")
		assert.NoError(t, err)
		assert.Equal(t, "1", value)
	})

	t.Run("Store failure returns default and the error", func(t *testing.T) {
		storeErr := errors.New("mongo unreachable")
		repo := NewSystemSettingsRepositoryWithStore(&stubStore{err: storeErr})

		value, err := repo.GetSetting(ctx, consts.SettingAutomationEnabled, "1")
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, "1", value)
	})
}
