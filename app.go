package main

import (
	"context"

	"github.com/google/uuid"
)

const (
	exitOK      = 0
	exitFailure = 1
)

// App wires one run: credential, variants, submitter and collaborators.
type App struct {
	cfg       *Config
	cred      *SessionCredential
	builder   *VariantBuilder
	submitter *Submitter
	messages  *MessageSource
	notifier  *Notifier
	logger    Logger
}

// NewApp derives the session credential and builds the components. It fails
// only with configuration errors and performs no I/O.
func NewApp(cfg *Config, doer Doer, logger Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cred, err := NewSessionCredential(cfg.Cookie, cfg.UIN)
	if err != nil {
		return nil, err
	}

	logger.Log("[env] uin=%s hostUin=%s %s gtk=%d", cred.UIN, cfg.TargetUIN, cookieSummary(cred.Cookie), cred.SigningToken)

	return &App{
		cfg:       cfg,
		cred:      cred,
		builder:   NewVariantBuilder(cred, cfg.TargetUIN, DefaultProfile.UserAgent),
		submitter: NewSubmitter(doer, logger),
		messages:  NewMessageSource(cfg.ContentDir, cfg.OfflineMode(), logger),
		notifier:  NewNotifier(cfg.DingTalkWebhook, cfg.DingTalkKeywords, cfg.TargetUIN, logger),
		logger:    logger,
	}, nil
}

// Check runs the cookie health probe and returns the process exit code.
func (a *App) Check(ctx context.Context) int {
	r := a.submitter.Probe(ctx, a.builder.ProbeVariant(uuid.New().String()))
	if r.Healthy {
		return exitOK
	}
	a.notifier.NotifyCookieExpired(ctx, r)
	return exitFailure
}

// Send picks a message, submits it and returns the process exit code.
func (a *App) Send(ctx context.Context) int {
	message := a.messages.Next(ctx)
	a.logger.Log("[MSG] len=%d", len([]rune(message)))

	outcome := a.submitter.Submit(ctx, a.builder.SubmitVariants(message))
	if outcome.Succeeded {
		a.notifier.NotifySuccess(ctx, outcome.SuccessfulVariant, message)
		return exitOK
	}

	a.notifier.NotifyFailure(ctx, outcome.FailureReason, outcome.Attempts)
	return exitFailure
}

// Run dispatches on the configured mode.
func (a *App) Run(ctx context.Context) int {
	if a.cfg.CheckOnlyMode() {
		return a.Check(ctx)
	}
	return a.Send(ctx)
}
