package poikkeusinfo

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()

	options, err := DefaultParserOptions()
	require.NoError(t, err)

	return NewParser(options)
}

func helsinkiTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()

	location, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	return time.Date(year, month, day, hour, minute, 0, 0, location)
}

func parseFixture(t *testing.T) []DisruptionNotification {
	t.Helper()

	file, err := os.Open("testdata/disruptions.xml")
	require.NoError(t, err)
	defer file.Close()

	notifications, err := newTestParser(t).Parse(file, helsinkiTime(t, 2024, time.March, 10, 9, 15))
	require.NoError(t, err)

	return notifications
}

func TestParseFixture(t *testing.T) {
	notifications := parseFixture(t)

	require.Len(t, notifications, 6)

	ids := []string{}
	for _, notification := range notifications {
		ids = append(ids, notification.ID)
	}
	assert.Equal(t, []string{"1001", "1002", "1003", "1004", "1005", "1006"}, ids)
}

func TestParsePreferredLanguage(t *testing.T) {
	tram := parseFixture(t)[0]

	assert.Equal(t, NotificationTypeUrgentInfo, tram.Type)
	assert.Equal(t, NotificationSourceManual, tram.Source)

	require.NotNil(t, tram.Info)
	assert.True(t, strings.HasPrefix(tram.Info.Text, "Raitiolinja 6"))
	require.NotNil(t, tram.Info.Reason)
	assert.Equal(t, "sääolosuhteet", *tram.Info.Reason)
	require.NotNil(t, tram.Info.Length)
	assert.Equal(t, "2024-03-10T18:00:00+02:00", tram.Info.Length.Format(time.RFC3339))

	assert.Equal(t, []TargetLine{
		{ID: "1006", Direction: DirectionToCentrum, Type: LineTypeTram, Number: "6"},
	}, tram.Lines)
}

func TestParseValidity(t *testing.T) {
	notifications := parseFixture(t)

	metro := notifications[1]
	assert.True(t, metro.Validity.Valid)
	assert.Equal(t, "2024-05-20T05:00:00+03:00", metro.Validity.From.Format(time.RFC3339))
	assert.Equal(t, "2024-05-23T14:00:00+03:00", metro.Validity.To.Format(time.RFC3339))
	assert.Equal(t, DefaultTimezone, metro.Validity.From.Location().String())

	assert.False(t, notifications[2].Validity.Valid)

	// from after to is passed through untouched
	reversed := notifications[3].Validity
	assert.True(t, reversed.From.After(reversed.To))
}

func TestParseInfoFallbacks(t *testing.T) {
	notifications := parseFixture(t)

	assert.Nil(t, notifications[3].Info, "several texts without a preferred one")

	lone := notifications[4].Info
	require.NotNil(t, lone)
	assert.Equal(t, "Bus 550 diverted.", lone.Text)
	assert.Nil(t, lone.Reason)
	assert.Nil(t, lone.Length)

	assert.Nil(t, notifications[5].Info, "blank text")
}

func TestParseTargets(t *testing.T) {
	notifications := parseFixture(t)

	assert.Nil(t, notifications[3].Lines)

	assert.NotNil(t, notifications[5].Lines)
	assert.Empty(t, notifications[5].Lines)

	assert.Equal(t, []TargetLine{
		{ID: "2550", Direction: DirectionUnknown, Type: LineTypeUnknown, Number: "550"},
	}, notifications[4].Lines)

	metro := notifications[1].Lines
	require.Len(t, metro, 2)
	assert.Equal(t, DirectionFromCentrum, metro[0].Direction)
	assert.Equal(t, DirectionToCentrum, metro[1].Direction)
}

const singleDisruption = `<DISRUPTIONS>
  <DISRUPTION id="42" type="%s" source="%s">
    <VALIDITY status="1" from="%s" to="2024-03-10T20:00:00"/>
  </DISRUPTION>
  <DISRUPTION id="43" type="1" source="1">
    <VALIDITY status="1" from="2024-03-10T08:00:00" to="2024-03-10T20:00:00"/>
  </DISRUPTION>
</DISRUPTIONS>`

func disruptionDocument(notificationType, source, from string) string {
	document := strings.Replace(singleDisruption, "%s", notificationType, 1)
	document = strings.Replace(document, "%s", source, 1)
	return strings.Replace(document, "%s", from, 1)
}

func TestParseUnknownTypeCode(t *testing.T) {
	parser := newTestParser(t)

	_, err := parser.ParseBytes([]byte(disruptionDocument("7", "1", "2024-03-10T08:00:00")), time.Now())

	var unknownCode *UnknownCodeError
	require.ErrorAs(t, err, &unknownCode)
	assert.Equal(t, "42", unknownCode.DisruptionID)
	assert.Equal(t, "type", unknownCode.Field)
	assert.Equal(t, "7", unknownCode.Code)
	assert.True(t, IsItemError(err))
}

func TestParseUnknownSourceCode(t *testing.T) {
	parser := newTestParser(t)

	_, err := parser.ParseBytes([]byte(disruptionDocument("1", "", "2024-03-10T08:00:00")), time.Now())

	var unknownCode *UnknownCodeError
	require.ErrorAs(t, err, &unknownCode)
	assert.Equal(t, "source", unknownCode.Field)
}

func TestParseInvalidTimestamp(t *testing.T) {
	parser := newTestParser(t)

	for _, from := range []string{"2024-03-10 08:00:00", "2024-03-10T08:00:00+02:00", "2024-3-10T08:00:00", ""} {
		_, err := parser.ParseBytes([]byte(disruptionDocument("1", "1", from)), time.Now())

		var invalidTimestamp *InvalidTimestampError
		require.ErrorAs(t, err, &invalidTimestamp, from)
		assert.Equal(t, "from", invalidTimestamp.Field)
		assert.Equal(t, from, invalidTimestamp.Value)

		var itemError *ItemError
		require.ErrorAs(t, err, &itemError)
		assert.Equal(t, "42", itemError.DisruptionID)
	}
}

func TestParseSkipInvalidItems(t *testing.T) {
	options, err := DefaultParserOptions()
	require.NoError(t, err)
	options.SkipInvalidItems = true

	notifications, err := NewParser(options).ParseBytes([]byte(disruptionDocument("7", "1", "2024-03-10T08:00:00")), time.Now())
	require.NoError(t, err)

	require.Len(t, notifications, 1)
	assert.Equal(t, "43", notifications[0].ID)
}

func TestParseOtherRoot(t *testing.T) {
	parser := newTestParser(t)

	for _, document := range []string{
		`<?xml version="1.0"?><MAINTENANCE><DISRUPTION id="1" type="1" source="1"/></MAINTENANCE>`,
		`<DISRUPTIONS/>`,
		`<DISRUPTIONS time="2024-03-10T09:12:00"></DISRUPTIONS>`,
	} {
		notifications, err := parser.ParseBytes([]byte(document), time.Now())
		require.NoError(t, err, document)
		assert.NotNil(t, notifications)
		assert.Empty(t, notifications)
	}
}

func TestParseMalformed(t *testing.T) {
	parser := newTestParser(t)

	for _, document := range []string{
		``,
		`not xml at all`,
		`<DISRUPTIONS><DISRUPTION id="1" type="1" source="1"></DISRUPTIONS>`,
		`<DISRUPTIONS><DISRUPTION id="1" type="1" source="1">`,
		`<DISRUPTIONS></DISRUPTIONS><DISRUPTIONS></DISRUPTIONS>`,
		`<OTHER><unclosed></OTHER>`,
		`<DISRUPTIONS>Fish & Chips</DISRUPTIONS>`,
	} {
		_, err := parser.ParseBytes([]byte(document), time.Now())

		var malformed *MalformedDocumentError
		assert.ErrorAs(t, err, &malformed, document)
		assert.False(t, IsItemError(err))
	}
}

func TestParseLatin1Document(t *testing.T) {
	document := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<DISRUPTIONS><DISRUPTION id=\"1\" type=\"1\" source=\"1\">" +
		"<VALIDITY status=\"1\" from=\"2024-03-10T08:00:00\" to=\"2024-03-10T20:00:00\"/>" +
		"<INFO><TEXT lang=\"fi\">Linjalla h\xe4iri\xf6. Syy: s\xe4\xe4olosuhteet.</TEXT></INFO>" +
		"</DISRUPTION></DISRUPTIONS>")

	notifications, err := newTestParser(t).ParseBytes(document, time.Now())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0].Info)

	assert.Equal(t, "Linjalla häiriö. Syy: sääolosuhteet.", notifications[0].Info.Text)
	assert.Equal(t, "sääolosuhteet", *notifications[0].Info.Reason)
}

func TestParseCustomCodeTables(t *testing.T) {
	options, err := DefaultParserOptions()
	require.NoError(t, err)
	options.Codes.Types["7"] = NotificationTypeAdvanceInfo

	notifications, err := NewParser(options).ParseBytes([]byte(disruptionDocument("7", "1", "2024-03-10T08:00:00")), time.Now())
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, NotificationTypeAdvanceInfo, notifications[0].Type)
}
