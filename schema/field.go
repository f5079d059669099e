package schema

// FieldOption configures a field.
type FieldOption func(*Field)

// F declares a field.
func F(name, typ string, opts ...FieldOption) *Field {
	f := &Field{Name: name, Type: typ}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mark declares an unnamed field matching a fixed literal.
func Mark(literal string, opts ...FieldOption) *Field {
	return F("", Text, append([]FieldOption{Literal(literal)}, opts...)...)
}

// Literal makes a text field match a fixed literal.
func Literal(text string) FieldOption {
	return func(f *Field) {
		f.Literal = text
	}
}

// Regex makes a text field match the longest run accepted by expr.
func Regex(expr string) FieldOption {
	return func(f *Field) {
		f.Pattern = &Pattern{Value: expr}
	}
}

// RegexReplace is Regex with the match rewritten by replace.
func RegexReplace(expr, replace string) FieldOption {
	return func(f *Field) {
		f.Pattern = &Pattern{Value: expr, Replace: &replace}
	}
}

// Until makes a text field accumulate input up to the terminator expression.
func Until(terminator string) FieldOption {
	return func(f *Field) {
		f.Pattern = &Pattern{Until: terminator}
	}
}

// UntilReplace is Until with the terminator rewritten by replace instead of stripped.
func UntilReplace(terminator, replace string) FieldOption {
	return func(f *Field) {
		f.Pattern = &Pattern{Until: terminator, Replace: &replace}
	}
}

// Optional lets the field be absent when it does not match.
func Optional() FieldOption {
	return func(f *Field) {
		f.Optional = &Optionality{Kind: Always}
	}
}

// OptionalFollowedBy skips the field when the input continues with text.
func OptionalFollowedBy(text string) FieldOption {
	return func(f *Field) {
		f.Optional = &Optionality{Kind: FollowedBy, Text: text}
	}
}

// OptionalIfNull lets the field be absent when the sibling is absent.
func OptionalIfNull(sibling string) FieldOption {
	return func(f *Field) {
		f.Optional = &Optionality{Kind: IfNull, Sibling: sibling}
	}
}

// OptionalIfSet lets the field be absent when the sibling is present.
func OptionalIfSet(sibling string) FieldOption {
	return func(f *Field) {
		f.Optional = &Optionality{Kind: IfSet, Sibling: sibling}
	}
}

// Between bounds a list field's member count. Max zero is unbounded.
func Between(min, max int) FieldOption {
	return func(f *Field) {
		f.Limit = &Limit{Min: min, Max: max}
	}
}

// IgnoreChars sets the characters skipped before the field's leaves.
func IgnoreChars(chars string, inherit bool) FieldOption {
	return func(f *Field) {
		f.Ignore = &Ignore{Chars: chars, Inherit: inherit}
	}
}

// Equals makes a text field repeat the consumed text of an earlier sibling.
// When the sibling is absent the field matches nothing.
func Equals(sibling string) FieldOption {
	return func(f *Field) {
		f.Equals = sibling
	}
}

// AdjustPriority shifts the priority of the enclosing node.
func AdjustPriority(value int, propagate bool) FieldOption {
	return func(f *Field) {
		f.Adjust = &Adjust{Value: value, Propagate: propagate}
	}
}
