package validators

import (
	"gatherbeat/cmd/internal/domain/entity"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	TagPresent     = "present"
	TagNotSentinel = "notsentinel"
)

// DefaultSentinels are the names Gather uses for non-human players.
var DefaultSentinels = []string{"Recording"}

// Register wires every custom tag used across the app into validate.
func Register(validate *validator.Validate, sentinels []string) {
	_ = validate.RegisterValidation(TagPresent, Present)
	_ = validate.RegisterValidation(TagNotSentinel, NotSentinel(sentinels))
}

// Present accepts only statuses that count as active time (Available, Busy).
func Present(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		log.Warnf("validator '%s' applied to non-string type: %s", TagPresent, field.Kind().String())
		return false
	}
	return entity.Status(field.String()).IsPresent()
}

// NotSentinel rejects reserved bot/service account names. Matching is exact.
func NotSentinel(names []string) validator.Func {
	reserved := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			reserved[name] = struct{}{}
		}
	}

	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}

		_, found := reserved[field.String()]
		return !found
	}
}
