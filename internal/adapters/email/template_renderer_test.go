package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityevents/internal/domain"
)

func TestTemplateRenderer_RegistrationConfirmed(t *testing.T) {
	renderer := NewTemplateRenderer()
	spots := 12
	data := &domain.RegistrationEmailData{
		Email:          "ada@example.com",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		EventName:      "Go Meetup",
		EventLocation:  "Berlin",
		StartDateTime:  time.Date(2026, 11, 5, 18, 0, 0, 0, time.UTC),
		EndDateTime:    time.Date(2026, 11, 5, 20, 0, 0, 0, time.UTC),
		Price:          "15.00",
		IsFree:         false,
		Description:    "Monthly Go talks",
		Tags:           []string{"go", "community"},
		AvailableSpots: &spots,
	}

	subject, htmlBody, textBody, err := renderer.Render("registration_confirmed", data)
	require.NoError(t, err)

	assert.Equal(t, "Registration Confirmed: Go Meetup", subject)
	assert.Contains(t, textBody, "Hi Ada Lovelace")
	assert.Contains(t, textBody, "Berlin")
	assert.Contains(t, textBody, "15.00")
	assert.Contains(t, textBody, "go, community")
	assert.Contains(t, textBody, "Spots remaining: 12")
	assert.Contains(t, htmlBody, "Go Meetup")
}

func TestTemplateRenderer_FreeEventWithoutExtras(t *testing.T) {
	renderer := NewTemplateRenderer()
	data := &domain.RegistrationEmailData{
		Email:         "ada@example.com",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		EventName:     "Community Picnic",
		EventLocation: "City Park",
		StartDateTime: time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2026, 7, 4, 16, 0, 0, 0, time.UTC),
		Price:         "0",
		IsFree:        true,
		Description:   "Bring a dish",
	}

	_, _, textBody, err := renderer.Render("registration_confirmed", data)
	require.NoError(t, err)

	assert.Contains(t, textBody, "Free")
	assert.NotContains(t, textBody, "Tags:")
	assert.NotContains(t, textBody, "Spots remaining")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	renderer := NewTemplateRenderer()
	_, _, _, err := renderer.Render("no_such_template", nil)
	require.Error(t, err)
}
