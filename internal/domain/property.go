package domain

import (
	"fmt"
	"time"
)

type HouseType string

const (
	HouseTypeCondominium HouseType = "Condominium"
	HouseTypeHouse       HouseType = "House"
	HouseTypeApartment   HouseType = "Apartment"
	HouseTypeStudio      HouseType = "Studio"
)

var HouseTypes = []HouseType{HouseTypeCondominium, HouseTypeHouse, HouseTypeApartment, HouseTypeStudio}

func (h HouseType) Valid() bool {
	for _, t := range HouseTypes {
		if t == h {
			return true
		}
	}
	return false
}

type Amenity struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type Property struct {
	ID               int32     `json:"id"`
	OwnerID          int32     `json:"owner_id"`
	OwnerName        string    `json:"owner_name,omitempty"`
	HouseType        HouseType `json:"house_type"`
	Title            string    `json:"title"`
	RentCents        int64     `json:"rent_cents"`
	UniversityNearby string    `json:"university_nearby"`
	Address          string    `json:"address"`
	Description      string    `json:"description"`
	Bedrooms         int32     `json:"bedrooms"`
	TotalRoom        int32     `json:"total_room"`
	TotalToilets     int32     `json:"total_toilets"`
	SquareFootage    *int32    `json:"square_footage,omitempty"`
	MaxTenants       int32     `json:"max_tenants"`
	GenderPreferred  Gender    `json:"gender_preferred"`
	MainImageKey     string    `json:"-"`
	MainImageURL     string    `json:"main_image_url,omitempty"`
	TotalSpots       int32     `json:"total_spots"`
	BookedSpots      int32     `json:"booked_spots"`
	Amenities        []Amenity `json:"amenities,omitempty"` // Populated when needed
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Property) AvailableSpots() int32 {
	if p.BookedSpots >= p.TotalSpots {
		return 0
	}
	return p.TotalSpots - p.BookedSpots
}

func (p *Property) IsAvailable() bool { return p.AvailableSpots() > 0 }

func (p *Property) IsOwnedBy(c Caller) bool {
	return c.IsAuthenticated() && p.OwnerID == c.UserID
}

// ApplySpotDelta adjusts booked_spots, clamping to [0, total_spots].
func (p *Property) ApplySpotDelta(delta int32) {
	p.BookedSpots += delta
	if p.BookedSpots < 0 {
		p.BookedSpots = 0
	}
	if p.BookedSpots > p.TotalSpots {
		p.BookedSpots = p.TotalSpots
	}
}

// MaxTenantsPerProperty bounds max_tenants, and with it the occupant rows of a booking.
const MaxTenantsPerProperty = 20

// PropertyInput is the owner-editable part of a listing.
type PropertyInput struct {
	HouseType        HouseType
	Title            string
	RentCents        int64
	UniversityNearby string
	Address          string
	Description      string
	Bedrooms         int32
	TotalRoom        int32
	TotalToilets     int32
	SquareFootage    *int32
	MaxTenants       int32
	GenderPreferred  Gender
	TotalSpots       int32
	AmenityIDs       []int32
}

// Validate checks the input against the listing it will be applied to; existing is nil on create.
func (in PropertyInput) Validate(existing *Property) error {
	v := &ValidationError{}
	if !in.HouseType.Valid() {
		v.Add("house_type", "select a valid house type")
	}
	if in.Title == "" {
		v.Add("title", "this field is required")
	}
	if in.Address == "" {
		v.Add("address", "this field is required")
	}
	if in.UniversityNearby == "" {
		v.Add("university_nearby", "this field is required")
	}
	if in.RentCents < 0 {
		v.Add("rent", "rent cannot be negative")
	}
	if in.Bedrooms < 0 {
		v.Add("bedrooms", "bedrooms cannot be negative")
	}
	if in.TotalRoom < 1 {
		v.Add("total_room", "at least one room is required")
	}
	if in.TotalToilets < 0 {
		v.Add("total_toilets", "toilets cannot be negative")
	}
	if in.SquareFootage != nil && *in.SquareFootage < 0 {
		v.Add("square_footage", "square footage cannot be negative")
	}
	switch {
	case in.MaxTenants < 1:
		v.Add("max_tenants", "at least one tenant is required")
	case in.MaxTenants > MaxTenantsPerProperty:
		v.Add("max_tenants", fmt.Sprintf("at most %d tenants are allowed", MaxTenantsPerProperty))
	}
	if !in.GenderPreferred.Valid() {
		v.Add("gender_preferred", "select a valid gender preference")
	}
	minSpots := int32(1)
	if existing != nil && existing.BookedSpots > minSpots {
		minSpots = existing.BookedSpots
	}
	if in.TotalSpots < minSpots {
		v.Add("total_spots", "total spots cannot be lower than the spots already booked")
	}
	return v.OrNil()
}

// Apply copies the input onto p, leaving identity and counters other than total_spots untouched.
func (in PropertyInput) Apply(p *Property) {
	p.HouseType = in.HouseType
	p.Title = in.Title
	p.RentCents = in.RentCents
	p.UniversityNearby = in.UniversityNearby
	p.Address = in.Address
	p.Description = in.Description
	p.Bedrooms = in.Bedrooms
	p.TotalRoom = in.TotalRoom
	p.TotalToilets = in.TotalToilets
	p.SquareFootage = in.SquareFootage
	p.MaxTenants = in.MaxTenants
	p.GenderPreferred = in.GenderPreferred
	p.TotalSpots = in.TotalSpots
}

type PriceSort string

const (
	PriceSortRecent PriceSort = ""
	PriceSortAsc    PriceSort = "asc"
	PriceSortDesc   PriceSort = "desc"
)

const SearchPageSize = 12

// PropertySearch holds the listing filters. Zero values mean "no filter".
type PropertySearch struct {
	Query            string
	HouseType        HouseType
	GenderPreference Gender
	MinBedrooms      int32
	PriceSort        PriceSort
	Page             int32
}

// Normalize drops unknown enum values and clamps the page to >= 1.
func (s PropertySearch) Normalize() PropertySearch {
	if s.HouseType != "" && !s.HouseType.Valid() {
		s.HouseType = ""
	}
	if s.GenderPreference != "" && !s.GenderPreference.Valid() {
		s.GenderPreference = ""
	}
	if s.PriceSort != PriceSortAsc && s.PriceSort != PriceSortDesc {
		s.PriceSort = PriceSortRecent
	}
	if s.MinBedrooms < 0 {
		s.MinBedrooms = 0
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

func (s PropertySearch) Offset() int32 { return (s.Page - 1) * SearchPageSize }

// Upload is an image submitted with a form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}
