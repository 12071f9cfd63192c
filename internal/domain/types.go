// Package domain defines the normalized domain types for the photo catalog.
// These types represent the core concepts independent of the remote API's JSON structure.
package domain

import "time"

// Photo represents a single photo in the catalog.
type Photo struct {
	ID          string    // Service photo ID
	Slug        string    // URL slug (may be empty on older photos)
	Description string    // Author-provided description, falls back to alt text
	Width       int       // Original width in pixels
	Height      int       // Original height in pixels
	Color       string    // Dominant color as a hex string (e.g., "#0c2633")
	BlurHash    string    // BlurHash placeholder
	Likes       int64     // Number of likes
	Downloads   int64     // Number of downloads (only on detail responses)
	Views       int64     // Number of views (only on detail responses)
	CreatedAt   time.Time // Upload time
	URLs        PhotoURLs // Rendition URLs
	HTMLURL     string    // Public web page
	DownloadURL string    // Download-tracking endpoint (links.download_location)
	User        User      // Photographer
	Tags        []string  // Tag titles
	Location    string    // Human-readable location, empty if unknown
}

// PhotoURLs holds the renditions of a photo.
type PhotoURLs struct {
	Raw     string
	Full    string
	Regular string
	Small   string
	Thumb   string
}

// URLFor returns the rendition URL for a download quality, falling back to Regular.
func (u PhotoURLs) URLFor(q PhotoQuality) string {
	switch q {
	case QualityRaw:
		if u.Raw != "" {
			return u.Raw
		}
	case QualityFull:
		if u.Full != "" {
			return u.Full
		}
	case QualitySmall:
		if u.Small != "" {
			return u.Small
		}
	case QualityThumb:
		if u.Thumb != "" {
			return u.Thumb
		}
	}
	return u.Regular
}

// Collection represents a curated set of photos.
type Collection struct {
	ID          string
	Title       string
	Description string
	TotalPhotos int64
	Private     bool
	Featured    bool
	HTMLURL     string
	User        User
	CoverPhoto  *Photo
	PublishedAt time.Time
}

// User represents a public user profile.
type User struct {
	ID               string
	Username         string
	Name             string
	Bio              string
	Location         string
	PortfolioURL     string
	HTMLURL          string
	ProfileImage     string
	TotalPhotos      int64
	TotalLikes       int64
	TotalCollections int64
	Followers        int64
}

// Topic represents an editorial topic with a cover and preview photos.
type Topic struct {
	ID            string
	Slug          string
	Title         string
	Description   string
	Featured      bool
	StartsAt      time.Time
	EndsAt        time.Time // Zero while the topic is open
	TotalPhotos   int64
	Status        string // "open" or "closed"
	HTMLURL       string
	Owners        []User
	CoverPhoto    *Photo
	PreviewPhotos []Photo
}

// AccessToken is the result of a successful OAuth code exchange.
type AccessToken struct {
	Token     string
	TokenType string
	Scope     string
	CreatedAt time.Time
}

// UserPrivateProfile is the authenticated user's own profile.
type UserPrivateProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Bio               string `json:"bio"`
	Location          string `json:"location"`
	PortfolioURL      string `json:"portfolio_url"`
	InstagramUsername string `json:"instagram_username"`
	ProfileImage      string `json:"profile_image"`
}

// UserPrivateProfileData is the editable subset of a private profile.
type UserPrivateProfileData struct {
	Username          string
	FirstName         string
	LastName          string
	Email             string
	Bio               string
	Location          string
	PortfolioURL      string
	InstagramUsername string
}

// PhotoQuality selects which rendition is downloaded.
type PhotoQuality string

const (
	QualityRaw     PhotoQuality = "raw"
	QualityFull    PhotoQuality = "full"
	QualityRegular PhotoQuality = "regular"
	QualitySmall   PhotoQuality = "small"
	QualityThumb   PhotoQuality = "thumb"
)
