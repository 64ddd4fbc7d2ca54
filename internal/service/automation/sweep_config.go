package automation

import (
	"context"
	"strconv"
	"time"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/service/interfaces"
)

// SweepConfig is a point-in-time snapshot of the automation settings, read
// once at the start of each sweep. Concurrent admin edits apply to the next
// sweep, never to one in progress.
type SweepConfig struct {
	Enabled               bool
	AutoPreApprove        bool
	PreApprovalDelay      time.Duration
	PreApprovedAdvance    time.Duration
	DocumentReviewTimeout time.Duration
	AgreementTimeout      time.Duration
	FundingTimeout        time.Duration
	ExpiryGraceMultiple   int
}

func loadSweepConfig(ctx context.Context, settings interfaces.SystemSettingsRepositoryInterface) (*SweepConfig, error) {
	enabled, err := boolSetting(ctx, settings, consts.SettingAutomationEnabled, consts.DefaultAutomationEnabled)
	if err != nil {
		return nil, err
	}
	autoPreApprove, err := boolSetting(ctx, settings, consts.SettingAutoPreApproveEnabled, consts.DefaultAutoPreApproveEnabled)
	if err != nil {
		return nil, err
	}
	preApprovalDelay, err := hoursSetting(ctx, settings, consts.SettingPreApprovalDelayHours, consts.DefaultPreApprovalDelayHours)
	if err != nil {
		return nil, err
	}
	preApprovedAdvance, err := hoursSetting(ctx, settings, consts.SettingPreApprovedAdvanceHours, consts.DefaultPreApprovedAdvanceHours)
	if err != nil {
		return nil, err
	}
	documentTimeout, err := hoursSetting(ctx, settings, consts.SettingDocumentReviewTimeoutHrs, consts.DefaultDocumentReviewTimeoutHrs)
	if err != nil {
		return nil, err
	}
	agreementTimeout, err := hoursSetting(ctx, settings, consts.SettingAgreementTimeoutHours, consts.DefaultAgreementTimeoutHours)
	if err != nil {
		return nil, err
	}
	fundingTimeout, err := hoursSetting(ctx, settings, consts.SettingFundingTimeoutHours, consts.DefaultFundingTimeoutHours)
	if err != nil {
		return nil, err
	}
	grace, err := intSetting(ctx, settings, consts.SettingExpiryGraceMultiple, consts.DefaultExpiryGraceMultiple)
	if err != nil {
		return nil, err
	}
	if grace < 1 {
		grace = 1
	}

	return &SweepConfig{
		Enabled:               enabled,
		AutoPreApprove:        autoPreApprove,
		PreApprovalDelay:      preApprovalDelay,
		PreApprovedAdvance:    preApprovedAdvance,
		DocumentReviewTimeout: documentTimeout,
		AgreementTimeout:      agreementTimeout,
		FundingTimeout:        fundingTimeout,
		ExpiryGraceMultiple:   grace,
	}, nil
}

func boolSetting(ctx context.Context, settings interfaces.SystemSettingsRepositoryInterface, key, def string) (bool, error) {
	value, err := settings.GetSetting(ctx, key, def)
	if err != nil {
		return false, err
	}
	return value == "1" || value == "true", nil
}

func intSetting(ctx context.Context, settings interfaces.SystemSettingsRepositoryInterface, key, def string) (int, error) {
	value, err := settings.GetSetting(ctx, key, def)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		parsed, _ = strconv.Atoi(def)
	}
	return parsed, nil
}

func hoursSetting(ctx context.Context, settings interfaces.SystemSettingsRepositoryInterface, key, def string) (time.Duration, error) {
	hours, err := intSetting(ctx, settings, key, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(hours) * time.Hour, nil
}
