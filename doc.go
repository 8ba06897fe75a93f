/*
Package loglayout renders log events into text and binary records.

# Layouts

  - [PatternLayout] formats events with a conversion pattern like
    "%d{ISO8601} %-5p [%t] %c{1.} - %m%n", see package pattern.
  - [SyslogLayout] produces BSD syslog (RFC 3164) records.
  - [RFC5424Layout] produces RFC 5424 syslog records with structured data.
  - [GELFLayout] produces Graylog Extended Log Format JSON, optionally compressed.
  - [CSVLayout] produces CSV records of message parameters or event fields.

All layouts implement [Layout]. [New] builds a layout from a generic
configuration map, see [DecodeOptions].

# slog

[NewHandler] returns a [log/slog] handler which converts records into
log events and writes them using a layout.

# Diagnostics

Problems which can't be returned to the caller (invalid optional settings,
encoding fallbacks, recovered panics) are reported to the status logger,
see [SetStatusHandler].
*/
package loglayout
