/*
Package pattern compiles conversion patterns like "%d %-5p [%t] %c{1} - %m%n"
into immutable pipelines of converters and renders log events with them.

A pattern consists of literal text and directives. A directive starts with
'%' followed by optional formatting info, a key and zero or more {options}:

	%[-][0][min][.[-]max]key{option}{option}

'-' left-aligns the field, '0' pads right-aligned fields with zeros,
min is the minimum width and max the maximum width. A field longer than max
keeps its last characters when left-aligned and its first characters
otherwise; ".-" always keeps the first characters. "%%" is a literal '%'.

Keys are resolved by a [Registry]. [DefaultRegistry] knows the builtin
directives; applications add their own with [Registry.Register].

A [CompiledPattern] is safe for concurrent use. [Selector] implementations
choose one of several compiled patterns per event.
*/
package pattern

//go:generate -command MOCKGEN sh -c "$(git rev-parse --show-toplevel)/.buildcache/bin/$DOLLAR{DOLLAR}0 \"$DOLLAR{DOLLAR}@\"" mockgen
//go:generate MOCKGEN -destination=mock.script_test.go -package=pattern_test . Script
