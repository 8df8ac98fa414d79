package builders

import "github.com/bwmarrin/discordgo"

// Discord's component limits
const (
	MaxSelectOptions = 25
	maxRowButtons    = 5
	maxOptionText    = 100
)

// SelectOption is one entry of a select menu. Emoji is a unicode emoji.
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Emoji       string
	Default     bool
}

// SelectConfig sets how many options a player must pick. Zero values keep
// Discord's default of exactly one.
type SelectConfig struct {
	MinValues int
	MaxValues int
}

// ComponentBuilder lays buttons out in rows of five and gives every select
// menu a row of its own.
type ComponentBuilder struct {
	rows []discordgo.MessageComponent
	row  []discordgo.MessageComponent
}

func NewComponentBuilder() *ComponentBuilder {
	return &ComponentBuilder{}
}

func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, customID string) *ComponentBuilder {
	return b.add(discordgo.Button{Label: label, Style: style, CustomID: customID})
}

func (b *ComponentBuilder) EmojiButton(label, emoji string, style discordgo.ButtonStyle, customID string) *ComponentBuilder {
	return b.add(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: customID,
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
	})
}

func (b *ComponentBuilder) SuccessButton(label, customID string) *ComponentBuilder {
	return b.Button(label, discordgo.SuccessButton, customID)
}

// SelectMenu drops options past MaxSelectOptions and clamps MaxValues to
// the options that remain.
func (b *ComponentBuilder) SelectMenu(placeholder, customID string, options []SelectOption, config ...SelectConfig) *ComponentBuilder {
	if len(options) > MaxSelectOptions {
		options = options[:MaxSelectOptions]
	}
	menu := discordgo.SelectMenu{
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     make([]discordgo.SelectMenuOption, 0, len(options)),
	}
	for _, o := range options {
		opt := discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
			Default:     o.Default,
		}
		if o.Emoji != "" {
			opt.Emoji = &discordgo.ComponentEmoji{Name: o.Emoji}
		}
		menu.Options = append(menu.Options, opt)
	}
	if len(config) > 0 {
		if n := config[0].MinValues; n > 0 {
			menu.MinValues = &n
		}
		menu.MaxValues = min(config[0].MaxValues, len(menu.Options))
	}

	b.flush()
	b.row = append(b.row, menu)
	b.flush()
	return b
}

// Build closes the open row and returns every row built so far.
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.flush()
	return b.rows
}

func (b *ComponentBuilder) add(c discordgo.MessageComponent) *ComponentBuilder {
	if len(b.row) == maxRowButtons {
		b.flush()
	}
	b.row = append(b.row, c)
	return b
}

func (b *ComponentBuilder) flush() {
	if len(b.row) == 0 {
		return
	}
	b.rows = append(b.rows, discordgo.ActionsRow{Components: b.row})
	b.row = nil
}

// Options makes one option per string, label and value both cut to
// Discord's option text limit.
func Options(values []string) []SelectOption {
	out := make([]SelectOption, len(values))
	for i, v := range values {
		v = Truncate(v, maxOptionText)
		out[i] = SelectOption{Label: v, Value: v}
	}
	return out
}
