package zeroquery

// Built-in tables. Generated offline from usage data in the full product;
// this set covers the common number counters, frequent emoticon and emoji
// continuations, and particle suffixes.

// NumberKey is the table key holding counters valid after any number.
const NumberKey = "default"

var numberEntries = map[string][]Entry{
	"default": {
		{Type: TypeNumberSuffix, Value: "個"},
		{Type: TypeNumberSuffix, Value: "円"},
		{Type: TypeNumberSuffix, Value: "人"},
		{Type: TypeNumberSuffix, Value: "回"},
		{Type: TypeNumberSuffix, Value: "枚"},
		{Type: TypeNumberSuffix, Value: "本"},
	},
	"1": {
		{Type: TypeNumberSuffix, Value: "月"},
		{Type: TypeNumberSuffix, Value: "日"},
		{Type: TypeNumberSuffix, Value: "時"},
		{Type: TypeNumberSuffix, Value: "番"},
	},
	"12": {
		{Type: TypeNumberSuffix, Value: "月"},
		{Type: TypeNumberSuffix, Value: "日"},
		{Type: TypeNumberSuffix, Value: "時"},
		{Type: TypeNumberSuffix, Value: "分"},
		{Type: TypeNumberSuffix, Value: "月号"},
	},
	"24": {
		{Type: TypeNumberSuffix, Value: "日"},
		{Type: TypeNumberSuffix, Value: "時"},
		{Type: TypeNumberSuffix, Value: "時間"},
	},
	"31": {
		{Type: TypeNumberSuffix, Value: "日"},
	},
	"7": {
		{Type: TypeNumberSuffix, Value: "月"},
		{Type: TypeNumberSuffix, Value: "日"},
		{Type: TypeNumberSuffix, Value: "時"},
		{Type: TypeNumberSuffix, Value: "人"},
	},
}

var generalEntries = map[string][]Entry{
	"ありがとう": {
		{Type: TypeSuffix, Value: "ございます"},
		{Type: TypeEmoticon, Value: "(^^)"},
		{Type: TypeEmoji, Value: "😊", EmojiCarriers: EmojiUnicode},
	},
	"おはよう": {
		{Type: TypeSuffix, Value: "ございます"},
		{Type: TypeEmoji, Value: "☀", EmojiCarriers: EmojiUnicode | EmojiDocomo | EmojiSoftbank | EmojiKDDI, AndroidPUA: 0xFE000},
	},
	"おめでとう": {
		{Type: TypeSuffix, Value: "ございます"},
		{Type: TypeEmoji, Value: "🎉", EmojiCarriers: EmojiUnicode},
		{Type: TypeEmoticon, Value: "\\(^o^)/"},
	},
	"こんにちは": {
		{Type: TypeEmoticon, Value: "(^_^)"},
		{Type: TypeEmoji, Value: "😀", EmojiCarriers: EmojiUnicode},
	},
	"よろしく": {
		{Type: TypeSuffix, Value: "お願いします"},
		{Type: TypeEmoticon, Value: "m(_ _)m"},
	},
	"了解": {
		{Type: TypeSuffix, Value: "です"},
		{Type: TypeSuffix, Value: "しました"},
		{Type: TypeEmoji, Value: "👍", EmojiCarriers: EmojiUnicode | EmojiDocomo, AndroidPUA: 0xFE1B1},
	},
	"誕生日": {
		{Type: TypeSuffix, Value: "おめでとう"},
		{Type: TypeEmoji, Value: "🎂", EmojiCarriers: EmojiUnicode},
	},
	"雨": {
		{Type: TypeEmoji, Value: "☔", EmojiCarriers: EmojiUnicode | EmojiDocomo | EmojiSoftbank | EmojiKDDI, AndroidPUA: 0xFE002},
	},
}

var (
	numberTable  = NewTable(numberEntries)
	generalTable = NewTable(generalEntries)
)

// NumberTable returns the built-in number-suffix table.
func NumberTable() *Table { return numberTable }

// GeneralTable returns the built-in history-value table.
func GeneralTable() *Table { return generalTable }
