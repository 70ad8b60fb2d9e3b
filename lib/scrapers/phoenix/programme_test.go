package phoenix

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

const programmePage = `<html><body>
<h1>Caught Stealing 15</h1>
<p>Book now</p>
<p>A burned-out ex-baseball player gets dragged into a violent struggle
through the criminal underbelly of 1990s New York City.</p>
<ul><li>Duration: 109 mins</li><li>Certificate: 15</li></ul>
</body></html>`

func TestParseProgramme(t *testing.T) {
	p, err := ParseProgramme(programmePage)
	require.NoError(t, err)

	require.Equal(t, "Caught Stealing", p.Title)
	require.Equal(t, "15", p.Certificate)
	require.Equal(t, 109*time.Minute, p.Duration)
	require.True(t, strings.HasPrefix(p.Description, "A burned-out ex-baseball player"))
}

func TestParseProgrammeHeadingCertificate(t *testing.T) {
	page := `<html><body>
	<h1>Paddington in Peru PG</h1>
	<p>Duration: 106 mins</p>
	</body></html>`

	p, err := ParseProgramme(page)
	require.NoError(t, err)
	require.Equal(t, "Paddington in Peru", p.Title)
	require.Equal(t, "PG", p.Certificate)
	require.Equal(t, 106*time.Minute, p.Duration)
}

func TestParseProgrammeDefaults(t *testing.T) {
	page := `<html><body><h1>Secret Cinema</h1><p>soon</p></body></html>`

	p, err := ParseProgramme(page)
	require.NoError(t, err)
	require.Equal(t, "Secret Cinema", p.Title)
	require.Equal(t, "", p.Certificate)
	require.Equal(t, DefaultDuration, p.Duration)
	require.Equal(t, "", p.Description)
}

func TestParseProgrammeDescriptionTrimmed(t *testing.T) {
	long := strings.Repeat("cinema ", 200)
	page := `<html><body><h1>Marathon U</h1><p>` + long + `</p></body></html>`

	p, err := ParseProgramme(page)
	require.NoError(t, err)
	require.LessOrEqual(t, len(p.Description), 800)
	require.NotEmpty(t, p.Description)
}

func TestParseProgrammeDescriptionCountsCharacters(t *testing.T) {
	// 39 characters but 78 bytes, still below the substantive threshold
	short := strings.Repeat("é", 39)
	long := strings.Repeat("é", 900)
	page := `<html><body><h1>Amélie</h1><p>` + short + `</p><p>` + long + `</p></body></html>`

	p, err := ParseProgramme(page)
	require.NoError(t, err)
	require.Equal(t, 800, utf8.RuneCountInString(p.Description))
	require.True(t, utf8.ValidString(p.Description))
	require.True(t, strings.HasPrefix(p.Description, "é"))
}

func TestParseProgrammeNotHTML(t *testing.T) {
	_, err := ParseProgramme("service temporarily unavailable")
	require.ErrorIs(t, err, ErrNotHTML)
}
