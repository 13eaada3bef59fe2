package models

import "time"

// UserProfile is the per-user document the assistant keeps about who it talks to.
// Optional fields are pointers so a merge can tell "absent" apart from "empty".
type UserProfile struct {
	ID              string    `json:"id" db:"id"`
	Name            *string   `json:"name,omitempty" db:"name"`
	Language        *string   `json:"language,omitempty" db:"language"`
	Profession      *string   `json:"profession,omitempty" db:"profession"`
	Interests       []string  `json:"interests" db:"interests"`
	MemoryNotes     *string   `json:"memory_notes,omitempty" db:"memory_notes"`
	LastInteraction time.Time `json:"last_interaction" db:"last_interaction"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// OptionalMemoryNotes tracks tri-state semantics for memory_notes updates (RFC 7396 PATCH).
// This is transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalMemoryNotes struct {
	Present bool
	Value   *string
}

// UpdateProfileRequest is a partial profile update.
// Nil pointers leave the stored value alone; Interests replaces the whole list when non-nil.
type UpdateProfileRequest struct {
	Name        *string
	Language    *string
	Profession  *string
	Interests   []string
	MemoryNotes OptionalMemoryNotes
}

// MergeInto applies the non-absent fields of p onto dst.
func (p *UserProfile) MergeInto(dst *UserProfile) {
	if p.Name != nil {
		dst.Name = p.Name
	}
	if p.Language != nil {
		dst.Language = p.Language
	}
	if p.Profession != nil {
		dst.Profession = p.Profession
	}
	if p.Interests != nil {
		dst.Interests = p.Interests
	}
	if p.MemoryNotes != nil {
		dst.MemoryNotes = p.MemoryNotes
	}
}

// Apply applies a partial update to the profile in place.
func (req *UpdateProfileRequest) Apply(dst *UserProfile) {
	if req.Name != nil {
		dst.Name = req.Name
	}
	if req.Language != nil {
		dst.Language = req.Language
	}
	if req.Profession != nil {
		dst.Profession = req.Profession
	}
	if req.Interests != nil {
		dst.Interests = req.Interests
	}
	if req.MemoryNotes.Present {
		dst.MemoryNotes = req.MemoryNotes.Value
	}
}
