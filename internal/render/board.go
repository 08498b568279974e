package render

import (
	"fmt"
	"strings"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/pagination"
)

const eventDateLayout = "Jan 2, 2006"

func pinField(n int, p board.Pin) chat.Field {
	return chat.Field{Name: fmt.Sprintf("%d.", n), Value: fmt.Sprintf("[%s](%s): %s", p.Title, p.URL, p.Description)}
}

func eventField(n int, e board.Event) chat.Field {
	return chat.Field{
		Name: fmt.Sprintf("%d.", n),
		Value: fmt.Sprintf("[%s](%s): %s\n%s – %s", e.Title, e.URL, e.Description,
			e.StartDate.Format(eventDateLayout), e.EndDate.Format(eventDateLayout)),
	}
}

func faqField(f board.FAQ) chat.Field {
	return chat.Field{Name: f.Question, Value: f.Answer}
}

func boardPage[T any](title, empty string, owner chat.User, page pagination.Page[T], field func(int, T) chat.Field) chat.Message {
	embed := chat.Embed{
		Title:      title,
		Color:      colorCork,
		Footer:     pageFooter(owner, page.Index, page.Total),
		FooterIcon: owner.AvatarURL,
	}
	if len(page.Items) == 0 {
		embed.Fields = []chat.Field{{Name: "Empty!", Value: empty}}
	}
	for i, item := range page.Items {
		embed.Fields = append(embed.Fields, field(page.Offset+i+1, item))
	}
	msg := chat.Message{Embeds: []chat.Embed{embed}}
	if page.Total > 1 {
		msg.Buttons = pagerButtons(page)
	}
	return msg
}

// Pins renders one page of pins. Numbers are the positions admin
// commands accept.
func Pins(owner chat.User, page pagination.Page[board.Pin]) chat.Message {
	return boardPage("Pins", "No current pins found!", owner, page, pinField)
}

// Events renders one page of current events.
func Events(owner chat.User, page pagination.Page[board.Event]) chat.Message {
	return boardPage("Events", "No current events found!", owner, page, eventField)
}

// FAQs renders one page of FAQs.
func FAQs(owner chat.User, page pagination.Page[board.FAQ]) chat.Message {
	return boardPage("FAQs", "No current FAQs found!", owner, page, func(_ int, f board.FAQ) chat.Field {
		return faqField(f)
	})
}

// Summary renders events, pins and FAQs in one embed.
func Summary(s *board.Summary) chat.Message {
	var fields []chat.Field

	if len(s.Events) == 0 {
		fields = append(fields, chat.Field{Name: "Events: ", Value: "No current events found!"})
	} else {
		fields = append(fields, chat.Field{Name: "Events: ", Value: joinLines(s.Events, func(i int, e board.Event) string {
			return fmt.Sprintf("%d. [%s](%s)", i+1, e.Title, e.URL)
		})})
	}
	if len(s.Pins) == 0 {
		fields = append(fields, chat.Field{Name: "Pins: ", Value: "No current pins found!"})
	} else {
		fields = append(fields, chat.Field{Name: "Pins: ", Value: joinLines(s.Pins, func(i int, p board.Pin) string {
			return fmt.Sprintf("%d. [%s](%s)", i+1, p.Title, p.URL)
		})})
	}
	if len(s.FAQs) == 0 {
		fields = append(fields, chat.Field{Name: "FAQs: ", Value: "No current FAQs found!"})
	} else {
		fields = append(fields, chat.Field{Name: "FAQs: ", Value: joinLines(s.FAQs, func(i int, f board.FAQ) string {
			return fmt.Sprintf("%d. %s", i+1, f.Question)
		})})
	}

	return chat.Message{Embeds: []chat.Embed{{Title: "List Results", Color: colorCork, Fields: fields}}}
}

// PinChanged confirms an admin pin change. verb is "Created", "Edited"
// or "Deleted".
func PinChanged(verb string, p *board.Pin) chat.Message {
	return chat.Message{Embeds: []chat.Embed{{
		Title:  verb + " Pin",
		Color:  colorCork,
		Fields: []chat.Field{{Name: p.Title, Value: fmt.Sprintf("%s\n%s", p.URL, p.Description)}},
	}}}
}

func joinLines[T any](items []T, line func(int, T) string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = line(i, item)
	}
	return strings.Join(lines, "\n")
}
