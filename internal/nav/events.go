// Package nav defines the navigation events screens emit through an event.Channel.
package nav

import "github.com/androiddevnotesforks/walleria/internal/event"

// Event is a navigation request. The set is closed.
type Event interface {
	isNavEvent()
}

// ToPhotoDetails opens a photo.
type ToPhotoDetails struct {
	PhotoID string
}

// ToCollectionDetails opens a collection.
type ToCollectionDetails struct {
	ID string
}

// ToUserDetails opens a user's public profile.
type ToUserDetails struct {
	Username string
}

// ToSearch opens the search screen, optionally prefilled.
type ToSearch struct {
	Query string
}

// ToTopic opens a topic's photo feed.
type ToTopic struct {
	Slug string
}

// ToTopicList opens the topic picker.
type ToTopicList struct{}

// ToProfile opens the logged-in user's profile.
type ToProfile struct{}

// ToLogin opens the login flow.
type ToLogin struct{}

// Back returns to the previous screen.
type Back struct{}

// OpenURL opens an external link in the browser.
type OpenURL struct {
	URL string
}

func (ToPhotoDetails) isNavEvent()      {}
func (ToCollectionDetails) isNavEvent() {}
func (ToUserDetails) isNavEvent()       {}
func (ToSearch) isNavEvent()            {}
func (ToTopic) isNavEvent()             {}
func (ToTopicList) isNavEvent()         {}
func (ToProfile) isNavEvent()           {}
func (ToLogin) isNavEvent()             {}
func (Back) isNavEvent()                {}
func (OpenURL) isNavEvent()             {}

// Channel is the navigation event channel shared by screens and the app router.
type Channel = event.Channel[Event]

// NewChannel creates a navigation channel with the default capacity.
func NewChannel() *Channel {
	return event.New[Event](0)
}

// Describe returns a short human-readable description, used in logs.
func Describe(e Event) string {
	switch e := e.(type) {
	case ToPhotoDetails:
		return "photo " + e.PhotoID
	case ToCollectionDetails:
		return "collection " + e.ID
	case ToUserDetails:
		return "user " + e.Username
	case ToSearch:
		return "search " + e.Query
	case ToTopic:
		return "topic " + e.Slug
	case ToTopicList:
		return "topics"
	case ToProfile:
		return "profile"
	case ToLogin:
		return "login"
	case Back:
		return "back"
	case OpenURL:
		return "open " + e.URL
	default:
		return "unknown"
	}
}
