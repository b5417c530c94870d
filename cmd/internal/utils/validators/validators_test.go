package validators

import (
	"gatherbeat/cmd/internal/domain/entity"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestRegisteredTags(t *testing.T) {
	validate := validator.New()
	Register(validate, []string{"Recording", " Bot ", ""})

	ok := &entity.Participant{ID: "1", Name: "Ana", Status: "Busy"}
	assert.NoError(t, validate.Struct(ok))

	for _, p := range []*entity.Participant{
		{ID: "1", Name: "Recording", Status: "Busy"},
		{ID: "1", Name: "Bot", Status: "Busy"},
		{ID: "1", Name: "Ana", Status: "Away"},
		{ID: "1", Name: "Ana", Status: "DoNotDisturb"},
	} {
		assert.Error(t, validate.Struct(p), "%+v", p)
	}
}
