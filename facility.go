package loglayout

import (
	"fmt"
	"strings"

	"github.com/powerman/loglayout/logevent"
)

// Facility is a syslog facility code.
type Facility int

// Facilities.
const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
	FacilityNTP
	FacilityAudit
	FacilityAlert
	FacilityClock
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var facilityNames = [...]string{
	"KERN", "USER", "MAIL", "DAEMON", "AUTH", "SYSLOG", "LPR", "NEWS",
	"UUCP", "CRON", "AUTHPRIV", "FTP", "NTP", "AUDIT", "ALERT", "CLOCK",
	"LOCAL0", "LOCAL1", "LOCAL2", "LOCAL3", "LOCAL4", "LOCAL5", "LOCAL6", "LOCAL7",
}

func (f Facility) String() string {
	if f < 0 || int(f) >= len(facilityNames) {
		return fmt.Sprintf("Facility(%d)", int(f))
	}
	return facilityNames[f]
}

// ParseFacility returns facility by case-insensitive name.
func ParseFacility(name string) (Facility, error) {
	name = strings.TrimSpace(name)
	for i, n := range facilityNames {
		if strings.EqualFold(name, n) {
			return Facility(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown facility %q", ErrInvalidConfig, name)
}

func (f *Facility) UnmarshalText(text []byte) error {
	v, err := ParseFacility(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Facility) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Severity is a syslog severity code.
type Severity int

// Severities.
const (
	SeverityEmerg Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

var severityNames = [...]string{"EMERG", "ALERT", "CRITICAL", "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// SeverityOf maps a log level to syslog severity.
// Custom levels are mapped by their standard level.
func SeverityOf(level logevent.Level) Severity {
	switch level.StandardLevel() {
	case logevent.Off:
		return SeverityEmerg
	case logevent.Fatal:
		return SeverityAlert
	case logevent.Error:
		return SeverityError
	case logevent.Warn:
		return SeverityWarning
	case logevent.Info:
		return SeverityInfo
	default:
		return SeverityDebug
	}
}

// Priority returns syslog PRI value.
func Priority(f Facility, level logevent.Level) int {
	return int(f)<<3 | int(SeverityOf(level))
}
