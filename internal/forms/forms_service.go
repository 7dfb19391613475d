package forms

import (
	"context"

	formserrors "kazini-payroll/internal/forms/errors"
	"kazini-payroll/internal/shared/formvalidation"

	"go.uber.org/zap"
)

//go:generate mockgen -source=forms_service.go -destination=mock/forms_service_mock.go -package=mock
type Service interface {
	GetRuleSet(ctx context.Context, name string) (RuleSetResponse, error)
	Validate(ctx context.Context, name string, req ValidateRequest) (ValidateResponse, error)
}

type service struct {
	registry *Registry
	logger   *zap.Logger
}

func NewService(registry *Registry, logger ...*zap.Logger) Service {
	l := zap.L().Named("forms.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("forms.service")
	}
	return &service{registry: registry, logger: l}
}

func (s *service) GetRuleSet(ctx context.Context, name string) (RuleSetResponse, error) {
	rs, err := s.registry.Get(name)
	if err != nil {
		return RuleSetResponse{}, err
	}
	return RuleSetResponse{Name: name, Fields: rs.Rules()}, nil
}

func (s *service) Validate(ctx context.Context, name string, req ValidateRequest) (ValidateResponse, error) {
	rs, err := s.registry.Get(name)
	if err != nil {
		return ValidateResponse{}, err
	}

	event := req.Event
	if event == "" {
		event = EventSubmit
	}
	if event != EventSubmit {
		if _, ok := rs.Rule(req.Field); !ok {
			return ValidateResponse{}, formserrors.ErrUnknownField
		}
	}

	form := formvalidation.NewForm(rs, req.Values)
	form.Restore(req.Touched, req.Errors, req.SubmitCount)

	switch event {
	case EventChange:
		form.SetValue(req.Field, req.Values[req.Field])
	case EventBlur:
		form.Blur(req.Field)
	case EventSubmit:
		_ = form.HandleSubmit(ctx, func(context.Context, map[string]string) error { return nil })
	default:
		return ValidateResponse{}, formserrors.ErrInvalidEvent
	}

	s.logger.Debug("form event replayed",
		zap.String("form", name),
		zap.String("event", event),
		zap.String("field", req.Field),
		zap.Int("errors", len(form.Errors())),
	)

	return ValidateResponse{
		Errors:      form.Errors(),
		Valid:       len(rs.Validate(req.Values)) == 0,
		SubmitCount: form.SubmitCount(),
	}, nil
}
