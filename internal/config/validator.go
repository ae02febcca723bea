package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)
	sshGitPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+:[a-zA-Z0-9._/~-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("service_name", func(fl validator.FieldLevel) bool {
			return serviceNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("git_url", func(fl validator.FieldLevel) bool {
			urlStr := fl.Field().String()
			if strings.TrimSpace(urlStr) == "" {
				return false
			}

			if parsed, err := url.Parse(urlStr); err == nil {
				scheme := strings.ToLower(parsed.Scheme)
				if (scheme == "http" || scheme == "https" || scheme == "ssh" || scheme == "git") && parsed.Host != "" {
					return true
				}
			}

			// SSH-style git URLs (user@host:path).
			return sshGitPattern.MatchString(urlStr)
		})

		validateInst = v
	})

	return validateInst
}

// ValidatePlan performs schema and cross-field validation on the plan.
func ValidatePlan(plan *Plan) error {
	if plan == nil {
		return shiplaneerrors.NewValidationError("plan", "plan is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(plan); err != nil {
		return convertValidationError(err)
	}

	if plan.Health.Interval > 0 && plan.Health.Timeout > 0 && plan.Health.Interval > plan.Health.Timeout {
		return shiplaneerrors.NewValidationError("health.interval",
			fmt.Sprintf("poll interval %ds exceeds overall timeout %ds", plan.Health.Interval, plan.Health.Timeout), nil)
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return shiplaneerrors.NewValidationError(field, msg, err)
	}

	return shiplaneerrors.NewValidationError("plan", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
