package logevent

import (
	"maps"
	"slices"
	"strings"
)

// ReservedEnterpriseNumber marks structured data ids registered with IANA,
// which are rendered without "@number" suffix.
const ReservedEnterpriseNumber = "-1"

// StructuredDataID identifies RFC 5424 structured data element.
type StructuredDataID struct {
	Name             string
	EnterpriseNumber string // Empty means use layout's default.
}

// ParseStructuredDataID splits "name@number" into StructuredDataID.
func ParseStructuredDataID(s string) StructuredDataID {
	name, ein, _ := strings.Cut(s, "@")
	return StructuredDataID{Name: name, EnterpriseNumber: ein}
}

func (id StructuredDataID) String() string {
	if id.EnterpriseNumber == "" || id.EnterpriseNumber == ReservedEnterpriseNumber {
		return id.Name
	}
	return id.Name + "@" + id.EnterpriseNumber
}

// StructuredData is implemented by messages carrying RFC 5424 structured data.
type StructuredData interface {
	Message
	// StructuredData calls yield for each contained element until it returns false.
	StructuredData(yield func(*StructuredDataMessage) bool)
}

// StructuredDataMessage is a message with a single structured data element.
type StructuredDataMessage struct {
	ID   StructuredDataID
	Type string // Used as RFC 5424 MSGID.
	Msg  string
	Data map[string]string
}

var (
	_ StructuredData = (*StructuredDataMessage)(nil)
	_ FieldsMessage  = (*StructuredDataMessage)(nil)
	_ StructuredData = StructuredDataCollection(nil)
)

// FormattedMessage returns "[id k="v" ...] msg" with fields sorted by key.
func (m *StructuredDataMessage) FormattedMessage() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(m.ID.String())
	for _, k := range slices.Sorted(maps.Keys(m.Data)) {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(m.Data[k])
		sb.WriteByte('"')
	}
	sb.WriteByte(']')
	if m.Msg != "" {
		sb.WriteByte(' ')
		sb.WriteString(m.Msg)
	}
	return sb.String()
}

// Format returns the free-form text of the message.
func (m *StructuredDataMessage) Format() string { return m.Msg }

func (m *StructuredDataMessage) Parameters() []any { return nil }

func (m *StructuredDataMessage) Fields() map[string]string { return m.Data }

func (m *StructuredDataMessage) StructuredData(yield func(*StructuredDataMessage) bool) {
	yield(m)
}

// StructuredDataCollection is a message with several structured data elements.
type StructuredDataCollection []*StructuredDataMessage

func (c StructuredDataCollection) FormattedMessage() string {
	var sb strings.Builder
	for _, m := range c {
		sb.WriteString(m.FormattedMessage())
	}
	return sb.String()
}

// Format returns the text of the first element.
func (c StructuredDataCollection) Format() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].Msg
}

func (StructuredDataCollection) Parameters() []any { return nil }

func (c StructuredDataCollection) StructuredData(yield func(*StructuredDataMessage) bool) {
	for _, m := range c {
		if !yield(m) {
			return
		}
	}
}
