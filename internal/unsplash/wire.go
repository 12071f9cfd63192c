package unsplash

import (
	"time"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// Wire types mirror the JSON the API returns. They never leave this package.

type apiURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type apiProfileImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type apiUser struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Name             string          `json:"name"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `json:"email"`
	Bio              string          `json:"bio"`
	Location         string          `json:"location"`
	PortfolioURL     string          `json:"portfolio_url"`
	InstagramUser    string          `json:"instagram_username"`
	TotalPhotos      int64           `json:"total_photos"`
	TotalLikes       int64           `json:"total_likes"`
	TotalCollections int64           `json:"total_collections"`
	Followers        int64           `json:"followers_count"`
	ProfileImage     apiProfileImage `json:"profile_image"`
	Links            struct {
		HTML string `json:"html"`
	} `json:"links"`
}

type apiTag struct {
	Title string `json:"title"`
}

type apiPhoto struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	AltDescription string     `json:"alt_description"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Color          string     `json:"color"`
	BlurHash       string     `json:"blur_hash"`
	Likes          int64      `json:"likes"`
	Downloads      int64      `json:"downloads"`
	Views          int64      `json:"views"`
	CreatedAt      *time.Time `json:"created_at"`
	URLs           apiURLs    `json:"urls"`
	Links          struct {
		HTML             string `json:"html"`
		DownloadLocation string `json:"download_location"`
	} `json:"links"`
	User     apiUser  `json:"user"`
	Tags     []apiTag `json:"tags"`
	Location *struct {
		Name    string `json:"name"`
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

type apiCollection struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TotalPhotos int64      `json:"total_photos"`
	Private     bool       `json:"private"`
	Featured    bool       `json:"featured"`
	PublishedAt *time.Time `json:"published_at"`
	CoverPhoto  *apiPhoto  `json:"cover_photo"`
	User        apiUser    `json:"user"`
	Links       struct {
		HTML string `json:"html"`
	} `json:"links"`
}

type apiTopic struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Featured      bool       `json:"featured"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	TotalPhotos   int64      `json:"total_photos"`
	Status        string     `json:"status"`
	Owners        []apiUser  `json:"owners"`
	CoverPhoto    *apiPhoto  `json:"cover_photo"`
	PreviewPhotos []apiPhoto `json:"preview_photos"`
	Links         struct {
		HTML string `json:"html"`
	} `json:"links"`
}

type searchResponse[T any] struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Results    []T `json:"results"`
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (u apiUser) toDomain() domain.User {
	name := u.Name
	if name == "" {
		name = joinName(u.FirstName, u.LastName)
	}
	return domain.User{
		ID:               u.ID,
		Username:         u.Username,
		Name:             name,
		Bio:              u.Bio,
		Location:         u.Location,
		PortfolioURL:     u.PortfolioURL,
		HTMLURL:          u.Links.HTML,
		ProfileImage:     u.ProfileImage.Large,
		TotalPhotos:      u.TotalPhotos,
		TotalLikes:       u.TotalLikes,
		TotalCollections: u.TotalCollections,
		Followers:        u.Followers,
	}
}

func (u apiUser) toPrivateProfile() domain.UserPrivateProfile {
	return domain.UserPrivateProfile{
		ID:                u.ID,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		Bio:               u.Bio,
		Location:          u.Location,
		PortfolioURL:      u.PortfolioURL,
		InstagramUsername: u.InstagramUser,
		ProfileImage:      u.ProfileImage.Large,
	}
}

func (p apiPhoto) toDomain() domain.Photo {
	desc := p.Description
	if desc == "" {
		desc = p.AltDescription
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t.Title != "" {
			tags = append(tags, t.Title)
		}
	}
	var location string
	if p.Location != nil {
		location = p.Location.Name
		if location == "" {
			location = joinNonEmpty(", ", p.Location.City, p.Location.Country)
		}
	}
	return domain.Photo{
		ID:          p.ID,
		Slug:        p.Slug,
		Description: desc,
		Width:       p.Width,
		Height:      p.Height,
		Color:       p.Color,
		BlurHash:    p.BlurHash,
		Likes:       p.Likes,
		Downloads:   p.Downloads,
		Views:       p.Views,
		CreatedAt:   derefTime(p.CreatedAt),
		URLs: domain.PhotoURLs{
			Raw:     p.URLs.Raw,
			Full:    p.URLs.Full,
			Regular: p.URLs.Regular,
			Small:   p.URLs.Small,
			Thumb:   p.URLs.Thumb,
		},
		HTMLURL:     p.Links.HTML,
		DownloadURL: p.Links.DownloadLocation,
		User:        p.User.toDomain(),
		Tags:        tags,
		Location:    location,
	}
}

func (c apiCollection) toDomain() domain.Collection {
	out := domain.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		TotalPhotos: c.TotalPhotos,
		Private:     c.Private,
		Featured:    c.Featured,
		HTMLURL:     c.Links.HTML,
		User:        c.User.toDomain(),
		PublishedAt: derefTime(c.PublishedAt),
	}
	if c.CoverPhoto != nil {
		cover := c.CoverPhoto.toDomain()
		out.CoverPhoto = &cover
	}
	return out
}

func (t apiTopic) toDomain() domain.Topic {
	out := domain.Topic{
		ID:          t.ID,
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		Featured:    t.Featured,
		StartsAt:    derefTime(t.StartsAt),
		EndsAt:      derefTime(t.EndsAt),
		TotalPhotos: t.TotalPhotos,
		Status:      t.Status,
		HTMLURL:     t.Links.HTML,
	}
	for _, o := range t.Owners {
		out.Owners = append(out.Owners, o.toDomain())
	}
	if t.CoverPhoto != nil {
		cover := t.CoverPhoto.toDomain()
		out.CoverPhoto = &cover
	}
	for _, p := range t.PreviewPhotos {
		out.PreviewPhotos = append(out.PreviewPhotos, p.toDomain())
	}
	return out
}

func mapSlice[A any, B any](in []A, f func(A) B) []B {
	out := make([]B, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func joinName(first, last string) string {
	return joinNonEmpty(" ", first, last)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
