package validate_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/aanand-mishra/tutor-manager/internal/types"
	"github.com/aanand-mishra/tutor-manager/internal/validate"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mx    map[string][]*net.MX
	hosts map[string][]string
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := f.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (f fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if h, ok := f.hosts[host]; ok {
		return h, nil
	}
	return nil, errors.New("no such host")
}

func TestName(t *testing.T) {
	v := validate.New("FR")

	assert.False(t, v.Name("Al"))
	assert.True(t, v.Name("Ali"))
	assert.False(t, v.Name("  Al "), "spaces do not count")
	assert.True(t, v.Name(" Ali "))
	assert.True(t, v.Name("Éli"))
	assert.True(t, v.Name(strings.Repeat("a", 50)))
	assert.False(t, v.Name(strings.Repeat("a", 51)))
}

func TestAddress(t *testing.T) {
	v := validate.New("FR")

	assert.True(t, v.Address(""))
	assert.True(t, v.Address("12 rue de la Paix, Paris"))
	assert.False(t, v.Address(strings.Repeat("x", 101)))
}

func TestPhone(t *testing.T) {
	v := validate.New("FR")

	tests := []struct {
		raw   string
		valid bool
		want  string
	}{
		{"06 12 34 56 78", true, "+33612345678"},
		{"06.12.34.56.78", true, "+33612345678"},
		{"01-23-45-67-89", true, "+33123456789"},
		{"+33 6 12 34 56 78", true, "+33612345678"},
		{"+33612345678", true, "+33612345678"},
		{"123", false, ""},
		{"06 12", false, ""},
		{"phone", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.Phone(tt.raw))
			if !tt.valid {
				return
			}

			got, err := v.SanitizePhone(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Sanitizing twice changes nothing.
			again, err := v.SanitizePhone(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
			assert.True(t, v.Phone(got))
		})
	}
}

func TestEmail_Syntax(t *testing.T) {
	v := validate.New("FR")

	assert.True(t, v.Email("marie.curie@example.com"))
	assert.True(t, v.Email("  Marie.Curie@Example.COM "))
	assert.False(t, v.Email("not-an-email"))
	assert.False(t, v.Email("marie@"))
	assert.False(t, v.Email("@example.com"))
	assert.False(t, v.Email(""))
	assert.False(t, v.Email(strings.Repeat("a", 64)+"@example.com"))
}

func TestEmail_Deliverability(t *testing.T) {
	resolver := fakeResolver{
		mx:    map[string][]*net.MX{"example.com": {{Host: "mx.example.com.", Pref: 10}}},
		hosts: map[string][]string{"hosts-only.org": {"192.0.2.1"}},
	}
	v := validate.New("FR", validate.WithResolver(resolver))

	assert.True(t, v.Email("marie@example.com"))
	assert.True(t, v.Email("marie@Example.com"))
	assert.True(t, v.Email("pierre@hosts-only.org"))
	assert.False(t, v.Email("paul@nowhere.invalid"))
}

func TestSanitizeEmail(t *testing.T) {
	got, err := validate.SanitizeEmail("Marie.Curie@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "Marie.Curie@example.com", got)

	again, err := validate.SanitizeEmail(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = validate.SanitizeEmail("nobody")
	assert.Error(t, err)
}

func TestDecimals(t *testing.T) {
	v := validate.New("FR")

	assert.True(t, v.Price("0"))
	assert.True(t, v.Price("12.345"))
	assert.True(t, v.Price("999.99"))
	assert.False(t, v.Price("999.991"))
	assert.False(t, v.Price("1000"))
	assert.False(t, v.Price("-1"))
	assert.False(t, v.Price("twelve"))

	assert.True(t, v.Duration("0"))
	assert.True(t, v.Duration("1.5"))
	assert.True(t, v.Duration("9.9"))
	assert.False(t, v.Duration("9.91"))
	assert.False(t, v.Duration("10"))
	assert.False(t, v.Duration("-0.5"))
}

func TestSanitizeDecimal(t *testing.T) {
	for raw, want := range map[string]string{
		"12.345": "12.35",
		"12.344": "12.34",
		"1.5":    "1.50",
		" 3 ":    "3.00",
		"0.005":  "0.01",
	} {
		got, err := validate.SanitizeDecimal(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := validate.SanitizeDecimal("abc")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	v := validate.New("FR")

	assert.True(t, v.Date("01/02/2024"))
	assert.True(t, v.Date("1/2/2024"))
	assert.False(t, v.Date("2024-02-01"))
	assert.False(t, v.Date("30/02/2024"))
	assert.False(t, v.Date(""))
}

func TestStruct(t *testing.T) {
	v := validate.New("FR")

	student := &types.Student{
		FirstName:    "Marie",
		LastName:     "Curie",
		PhoneNumber:  "+33612345678",
		EmailAddress: "marie@example.com",
	}
	require.NoError(t, v.Struct(student))

	student.PhoneNumber = "0612345678"
	err := v.Struct(student)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "PhoneNumber", verrs[0].Field())

	rate := &types.HourlyRate{Name: "Maths", Price: types.MustAmount("999.99")}
	require.NoError(t, v.Struct(rate))

	rate.Price = types.MustAmount("1000")
	assert.Error(t, v.Struct(rate))
}
