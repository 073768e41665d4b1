package entity

import (
	"time"
)

const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

type Message struct {
	ID        string `json:"id" firestore:"id"`
	SentBy    string `json:"sentBy" firestore:"sentBy"`
	Message   string `json:"message" firestore:"message"`
	TimeStamp string `json:"timeStamp" firestore:"timeStamp"`
}

// Chat is a support conversation about one car between its user and the
// admins. Messages are stored newest first.
type Chat struct {
	ID            string     `json:"id" firestore:"id"`
	CarID         string     `json:"carId" firestore:"carId"`
	UserID        string     `json:"userId" firestore:"userId"`
	ReadByAdmin   bool       `json:"readByAdmin" firestore:"readByAdmin"`
	ReadByUser    bool       `json:"readByUser" firestore:"readByUser"`
	LastMessageAt *time.Time `json:"lastMessageAt" firestore:"lastMessageAt"`
	Messages      []Message  `json:"messages" firestore:"messages"`
	CreatedAt     time.Time  `json:"createdAt" firestore:"createdAt"`
}

// NewChat returns an empty conversation with both sides marked read.
func NewChat(id, carID, userID string, now time.Time) *Chat {
	return &Chat{
		ID:          id,
		CarID:       carID,
		UserID:      userID,
		ReadByAdmin: true,
		ReadByUser:  true,
		Messages:    []Message{},
		CreatedAt:   now,
	}
}

// ValidSender reports whether role may author messages.
func ValidSender(role string) bool {
	return role == SenderUser || role == SenderAdmin
}

// AddMessage prepends msg, stamps lastMessageAt and flips the read flags so
// the sender has read the chat and the other side has not. A message whose
// ID is already present is ignored, which keeps retried sends idempotent.
func (c *Chat) AddMessage(msg Message, at time.Time) {
	for _, m := range c.Messages {
		if msg.ID != "" && m.ID == msg.ID {
			return
		}
	}

	c.Messages = append([]Message{msg}, c.Messages...)
	c.LastMessageAt = &at

	switch msg.SentBy {
	case SenderAdmin:
		c.ReadByAdmin = true
		c.ReadByUser = false
	case SenderUser:
		c.ReadByUser = true
		c.ReadByAdmin = false
	}
}

// MarkRead sets the read flag for one side.
func (c *Chat) MarkRead(role string) {
	switch role {
	case SenderAdmin:
		c.ReadByAdmin = true
	case SenderUser:
		c.ReadByUser = true
	}
}
