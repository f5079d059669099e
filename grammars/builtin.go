package grammars

import "github.com/dhamidi/rdparse/schema"

// Command is a single colon-prefixed command: ":run".
func Command() *Grammar {
	g := schema.New()
	g.Rule("Command",
		schema.Mark(":"),
		schema.F("command", schema.Text, schema.Regex(`[^;\n]+`)),
	)
	return &Grammar{
		Name:        "command",
		Root:        "Command",
		Description: "a colon followed by a command name",
		Example:     ":test",
		Schema:      g,
	}
}

// Comment is a line or block comment.
func Comment() *Grammar {
	g := schema.New()
	g.Sum("Comment", "LineComment", "BlockComment")
	g.Rule("LineComment", schema.Mark("//"), schema.F("text", schema.Text, schema.Regex(`[^\n]*`)))
	g.Rule("BlockComment", schema.Mark("/*"), schema.F("text", schema.Text, schema.Until(`\*/`)))
	return &Grammar{
		Name:        "comment",
		Root:        "Comment",
		Description: "C-style line and block comments",
		Example:     "// comment",
		Schema:      g,
	}
}

// Arith is integer arithmetic with the usual precedence. Operators bind
// tighter the lower their priority.
func Arith() *Grammar {
	g := schema.New().SetIgnore(" \t\n")
	g.Sum("Expr", "Number", "Group", "BinaryOp")
	g.Rule("Number", schema.F("value", schema.Int))
	g.Rule("Group", schema.Mark("("), schema.F("inner", "Expr"), schema.Mark(")"))
	g.Rule("BinaryOp",
		schema.F("left", "Expr"),
		schema.F("op", "Operator", schema.AdjustPriority(0, true)),
		schema.F("right", "Expr"),
	)
	g.Enum("Operator",
		schema.Opt("+", 20), schema.Opt("-", 20),
		schema.Opt("*", 10), schema.Opt("/", 10), schema.Opt("%", 10),
		schema.Opt("**", 5),
	)
	return &Grammar{
		Name:        "arith",
		Root:        "Expr",
		Description: "integer arithmetic with + - * / % ** and parentheses",
		Example:     "1 + 2 * (3 - 4)",
		Schema:      g,
	}
}

// Greeting leaves out its salutation when the input starts with "hi".
func Greeting() *Grammar {
	g := schema.New().SetIgnore(" ")
	g.Rule("Greeting",
		schema.F("salutation", schema.Text, schema.Regex(`[a-z]+`), schema.OptionalFollowedBy("hi")),
		schema.Mark("hi"),
		schema.F("name", schema.Text, schema.Regex(`[A-Z][a-z]*`), schema.Optional()),
	)
	return &Grammar{
		Name:        "greeting",
		Root:        "Greeting",
		Description: `an optional salutation, "hi" and an optional name`,
		Example:     "well hi Bob",
		Schema:      g,
	}
}

// JSON is the JSON value grammar.
func JSON() *Grammar {
	g := schema.New().SetIgnore(" \t\r\n")
	g.Sum("Value", "Object", "Array", "String", "Number", "Keyword")
	g.Rule("Object",
		schema.Mark("{"),
		schema.F("first", "Member", schema.Optional()),
		schema.F("rest", schema.ListOf("MoreMember")),
		schema.Mark("}"),
	)
	g.Rule("Member", schema.F("key", "String"), schema.Mark(":"), schema.F("value", "Value"))
	g.Rule("MoreMember", schema.Mark(","), schema.F("member", "Member"))
	g.Rule("Array",
		schema.Mark("["),
		schema.F("first", "Value", schema.Optional()),
		schema.F("rest", schema.ListOf("MoreValue")),
		schema.Mark("]"),
	)
	g.Rule("MoreValue", schema.Mark(","), schema.F("value", "Value"))
	g.Rule("String",
		schema.Mark(`"`),
		schema.F("value", schema.Text, schema.Regex(`([^"\\]|\\.)*`), schema.IgnoreChars("", false)),
		schema.Mark(`"`, schema.IgnoreChars("", false)),
	)
	g.Rule("Number", schema.F("value", schema.Float))
	g.Rule("Keyword", schema.F("word", "Word"))
	g.Enum("Word", schema.Opt("true", 0), schema.Opt("false", 0), schema.Opt("null", 0))
	return &Grammar{
		Name:        "json",
		Root:        "Value",
		Description: "JSON documents",
		Example:     `{"name": "rdp", "tags": [1, 2.5, true, null]}`,
		Schema:      g,
	}
}

// Tag is nested markup whose closing tag repeats the opening one.
func Tag() *Grammar {
	g := schema.New()
	g.Rule("Element",
		schema.Mark("<"),
		schema.F("open", schema.Text, schema.Regex(`[a-z][a-z0-9]*`)),
		schema.Mark(">"),
		schema.F("children", schema.ListOf("Content")),
		schema.Mark("</"),
		schema.F("close", schema.Text, schema.Equals("open")),
		schema.Mark(">"),
	)
	g.Sum("Content", "Element", "TextRun")
	g.Rule("TextRun", schema.F("text", schema.Text, schema.Regex(`[^<]+`)))
	return &Grammar{
		Name:        "tag",
		Root:        "Element",
		Description: "nested tags with matching close tags",
		Example:     "<p>hello <b>world</b></p>",
		Schema:      g,
	}
}

// INI is a configuration file of sections, assignments and comments.
func INI() *Grammar {
	g := schema.New().SetIgnore(" \t\r\n")
	g.Rule("File", schema.F("entries", schema.ListOf("Entry")))
	g.Sum("Entry", "Section", "Assignment", "LineComment")
	g.Rule("Section",
		schema.Mark("["),
		schema.F("name", schema.Text, schema.Regex(`[A-Za-z0-9_.-]+`)),
		schema.Mark("]"),
	)
	g.Rule("Assignment",
		schema.F("key", schema.Text, schema.Regex(`[A-Za-z_][A-Za-z0-9_.]*`)),
		schema.Mark("="),
		schema.F("value", schema.Text, schema.Until(`\r?\n`)),
	)
	g.Rule("LineComment",
		schema.F("marker", "CommentMarker"),
		schema.F("text", schema.Text, schema.Until(`\n`), schema.IgnoreChars("", false)),
	)
	g.Enum("CommentMarker", schema.Opt("#", 0), schema.Opt(";", 0))
	return &Grammar{
		Name:        "ini",
		Root:        "File",
		Description: "INI files with [sections], key = value pairs and comments",
		Example:     "[server]\nport = 8080\n# local only\nhost = localhost\n",
		Schema:      g,
	}
}
