package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	"car_picture": {
		AllowedMimeTypes: []string{"image/png", "image/jpeg", "image/jpg"},
		MaxSizeMB:        5,
		PathPrefix:       "cars",
	},
}
