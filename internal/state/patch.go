package state

import "slices"

// Patch is a partial update of the user inputs. Nil fields are left alone.
type Patch struct {
	ReferenceScript *string
	Thumbnail       *string
	Title           *string
	Topic           *string
	Tone            *Tone
	CustomTone      *string
	TargetMinutes   *int
	PersonaRules    *string
	Characters      *Characters
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Merge applies p to the inputs of s.
func (s *WizardState) Merge(p Patch) {
	in := &s.Inputs
	if p.ReferenceScript != nil {
		in.ReferenceScript = *p.ReferenceScript
	}
	if p.Thumbnail != nil {
		in.Thumbnail = *p.Thumbnail
	}
	if p.Title != nil {
		if *p.Title != in.Title {
			// Keywords belong to the title they were suggested for.
			s.TitleKeywords = nil
		}
		in.Title = *p.Title
	}
	if p.Topic != nil {
		in.Topic = *p.Topic
	}
	if p.Tone != nil {
		in.Tone = *p.Tone
	}
	if p.CustomTone != nil {
		in.CustomTone = *p.CustomTone
	}
	if p.TargetMinutes != nil {
		in.TargetMinutes = *p.TargetMinutes
	}
	if p.PersonaRules != nil {
		in.PersonaRules = *p.PersonaRules
	}
	if p.Characters != nil {
		in.Characters = *p.Characters
		in.Characters.Supporting = slices.Clone(p.Characters.Supporting)
	}
}
