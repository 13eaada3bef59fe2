package config

const (
	// MaxMessageLength bounds user text sent to the generation backend.
	MaxMessageLength = 32000

	// MaxRequestBodyBytes bounds JSON request bodies. Inline images travel as
	// base64 data URIs, so this is sized for a ~15MB picture.
	MaxRequestBodyBytes = 20 << 20

	// MaxProfileNameLength is the maximum length for profile names and professions.
	MaxProfileNameLength = 255

	// MaxMemoryNotesLength bounds the free-form memory notes kept on a profile.
	MaxMemoryNotesLength = 4000

	// MaxInterests bounds the number of interests stored on a profile.
	MaxInterests = 50
)
