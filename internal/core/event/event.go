package event

import (
	"fmt"
	"strings"
)

// MaxPhotoSize is the largest photo, in bytes, a draft may carry
const MaxPhotoSize = 1_000_000

// Field identifies one editable field of an event draft
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldCategory    Field = "category"
	FieldTeamSize    Field = "teamSize"
	FieldVenue       Field = "venue"
	FieldEventDate   Field = "eventDate"
	FieldContact     Field = "contact"
	FieldPhoto       Field = "photo"
)

// RequiredFields lists the text fields in the order they are validated
var RequiredFields = []Field{
	FieldName,
	FieldDescription,
	FieldPrice,
	FieldCategory,
	FieldTeamSize,
	FieldVenue,
	FieldEventDate,
	FieldContact,
}

// FormFields lists every field in the order it is written to the create request
var FormFields = []Field{
	FieldName,
	FieldDescription,
	FieldPrice,
	FieldPhoto,
	FieldCategory,
	FieldTeamSize,
	FieldVenue,
	FieldEventDate,
	FieldContact,
}

// NewField creates a Field with validation. Both the in-memory and the wire
// spelling are accepted.
func NewField(value string) (Field, error) {
	for _, f := range FormFields {
		if value == string(f) || value == f.FormKey() {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown event field: %s", value)
}

// FormKey returns the multipart field name the backend expects
func (f Field) FormKey() string {
	switch f {
	case FieldTeamSize:
		return "team_size"
	case FieldEventDate:
		return "event_date"
	default:
		return string(f)
	}
}

// Label returns a human readable label for the field
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Event Name"
	case FieldDescription:
		return "Event Description"
	case FieldPrice:
		return "Event Price"
	case FieldCategory:
		return "Category"
	case FieldTeamSize:
		return "Team Size"
	case FieldVenue:
		return "Venue"
	case FieldEventDate:
		return "Event Date"
	case FieldContact:
		return "Contact Information"
	case FieldPhoto:
		return "Photo"
	default:
		return string(f)
	}
}

// RequiredMessage returns the message reported when the field is missing
func (f Field) RequiredMessage() string {
	switch f {
	case FieldTeamSize:
		return "Team size is Required"
	case FieldEventDate:
		return "Event date is Required"
	case FieldContact:
		return "Contact information is Required"
	default:
		name := string(f)
		return strings.ToUpper(name[:1]) + name[1:] + " is Required"
	}
}

// String implements the Stringer interface
func (f Field) String() string {
	return string(f)
}

// Draft holds the editable state of an event that has not been created yet.
// Values are kept as typed by the user; only Validate decides whether the
// draft can be submitted.
type Draft struct {
	Name        string
	Description string
	Price       string
	Category    string
	TeamSize    string
	Venue       string
	EventDate   string
	Contact     string
	Photo       *Photo
}

// Get returns the text value of a field. The photo field yields its file name.
func (d Draft) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldPrice:
		return d.Price
	case FieldCategory:
		return d.Category
	case FieldTeamSize:
		return d.TeamSize
	case FieldVenue:
		return d.Venue
	case FieldEventDate:
		return d.EventDate
	case FieldContact:
		return d.Contact
	case FieldPhoto:
		if d.Photo == nil {
			return ""
		}
		return d.Photo.Name
	default:
		return ""
	}
}

// Set returns a copy of the draft with the text field replaced
func (d Draft) Set(field Field, value string) (Draft, error) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldPrice:
		d.Price = value
	case FieldCategory:
		d.Category = value
	case FieldTeamSize:
		d.TeamSize = value
	case FieldVenue:
		d.Venue = value
	case FieldEventDate:
		d.EventDate = value
	case FieldContact:
		d.Contact = value
	case FieldPhoto:
		return d, fmt.Errorf("photo must be set with SetPhoto")
	default:
		return d, fmt.Errorf("unknown event field: %s", field)
	}
	return d, nil
}

// SetPhoto returns a copy of the draft carrying photo; nil clears it
func (d Draft) SetPhoto(photo *Photo) Draft {
	d.Photo = photo
	return d
}

// HasPhoto reports whether a photo is attached
func (d Draft) HasPhoto() bool {
	return d.Photo != nil
}

// ValidationError describes the first field that keeps a draft from being submitted
type ValidationError struct {
	Field   Field
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// PhotoTooLargeMessage is reported when the photo exceeds MaxPhotoSize
const PhotoTooLargeMessage = "Photo should be less than 1MB"

// Validate checks the draft field by field and returns the first failure, or
// nil when the draft can be submitted.
func Validate(d Draft) *ValidationError {
	for _, field := range RequiredFields {
		if d.Get(field) == "" {
			return &ValidationError{Field: field, Message: field.RequiredMessage()}
		}
	}

	if d.Photo != nil && d.Photo.Size() > MaxPhotoSize {
		return &ValidationError{Field: FieldPhoto, Message: PhotoTooLargeMessage}
	}

	return nil
}
