// Package chattest provides an in-memory chat.Platform for tests.
package chattest

import (
	"context"
	"fmt"
	"sync"

	"github.com/borfus/corkboard-bot/internal/chat"
)

// Sent is one recorded Send or Edit.
type Sent struct {
	Ref     chat.MessageRef
	Message chat.Message
	Edit    bool
}

// Platform records every outgoing message. Roles maps
// guildID/userID to role names.
type Platform struct {
	mu      sync.Mutex
	next    int
	log     []Sent
	Roles   map[string][]string
	SendErr error
	EditErr error
}

// New creates an empty recording platform.
func New() *Platform {
	return &Platform{Roles: map[string][]string{}}
}

func (p *Platform) Send(_ context.Context, channelID string, msg chat.Message) (chat.MessageRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SendErr != nil {
		return chat.MessageRef{}, p.SendErr
	}
	p.next++
	ref := chat.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("m%d", p.next)}
	p.record(Sent{Ref: ref, Message: msg})
	return ref, nil
}

func (p *Platform) Edit(_ context.Context, ref chat.MessageRef, msg chat.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.EditErr != nil {
		return p.EditErr
	}
	p.record(Sent{Ref: ref, Message: msg, Edit: true})
	return nil
}

func (p *Platform) HasRole(_ context.Context, guildID, userID, roleName string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.Roles[guildID+"/"+userID] {
		if r == roleName {
			return true, nil
		}
	}
	return false, nil
}

// Grant gives userID the role in guildID.
func (p *Platform) Grant(guildID, userID, roleName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := guildID + "/" + userID
	p.Roles[key] = append(p.Roles[key], roleName)
}

// must hold p.mu
func (p *Platform) record(s Sent) {
	p.log = append(p.log, s)
}

// All returns a copy of everything sent so far.
func (p *Platform) All() []Sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Sent(nil), p.log...)
}

// Last returns the most recent Send or Edit.
func (p *Platform) Last() (Sent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.log) == 0 {
		return Sent{}, false
	}
	return p.log[len(p.log)-1], true
}

// Edits returns the edits applied to messageID.
func (p *Platform) Edits(messageID string) []chat.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []chat.Message
	for _, s := range p.log {
		if s.Edit && s.Ref.MessageID == messageID {
			out = append(out, s.Message)
		}
	}
	return out
}
