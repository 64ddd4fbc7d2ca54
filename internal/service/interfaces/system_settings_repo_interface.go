package interfaces

import "context"

type SystemSettingsRepositoryInterface interface {
	// GetSetting returns the stored value for the key, or the default when
	// the key is absent. Store failures are returned so callers can decide
	// whether the batch may proceed.
	GetSetting(ctx context.Context, key, defaultValue string) (string, error)
}
