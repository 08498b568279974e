// Package render turns domain values into chat messages. Every function
// is pure: the same input always yields the same message.
package render

import (
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/pagination"
)

const (
	colorCyan  = 0x00FFFF
	colorCork  = 0xC19A6B
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
)

// ErrorText formats a user-facing error line.
func ErrorText(format string, args ...any) chat.Message {
	return chat.Text(":bangbang: Error :bangbang: - "+format, args...)
}

func pageFooter(owner chat.User, index, total int) string {
	return fmt.Sprintf("%s: Page %d of %d", owner.Name, index+1, total)
}

func pagerButtons[T any](page pagination.Page[T]) []chat.Button {
	return []chat.Button{
		{CustomID: pagination.PrevButtonID, Label: "Previous", Style: chat.ButtonPrimary, Disabled: !page.HasPrev},
		{CustomID: pagination.NextButtonID, Label: "Next", Style: chat.ButtonPrimary, Disabled: !page.HasNext},
	}
}
