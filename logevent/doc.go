/*
Package logevent defines the read-only view of a log event consumed by layouts.

An [Event] is built by the caller (for example by the slog bridge in the
root package) and must not be modified while it is being formatted.
Layouts never retain an Event after the call which received it returns.
*/
package logevent
