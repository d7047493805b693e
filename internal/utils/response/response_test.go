package response_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/aanand-mishra/tutor-manager/internal/types"
	"github.com/aanand-mishra/tutor-manager/internal/utils/response"
	"github.com/aanand-mishra/tutor-manager/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, response.Write(&out, response.OK("Student created: %s", "Marie")))
	require.NoError(t, response.Write(&out, response.GeneralError(errors.New("boom"))))

	assert.Equal(t, "✔ Student created: Marie\n✘ boom\n", out.String())
}

func TestGeneralError_Validation(t *testing.T) {
	v := validate.New("FR")
	err := v.Struct(&types.Student{
		FirstName:    "Al",
		LastName:     "Curie",
		PhoneNumber:  "0612345678",
		EmailAddress: "marie@example.com",
	})
	require.Error(t, err)

	resp := response.GeneralError(fmt.Errorf("Create student: check: %w", err))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t,
		"field FirstName has an invalid length (min=3), field PhoneNumber must be in E.164 format",
		resp.Message)
}

func TestGeneralError_Range(t *testing.T) {
	v := validate.New("FR")
	err := v.Struct(&types.HourlyRate{Name: "Maths", Price: types.MustAmount("1000")})
	require.Error(t, err)

	resp := response.GeneralError(err)
	assert.Equal(t, "field Price is out of range (lte 999.99)", resp.Message)
}
