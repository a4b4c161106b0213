package properties

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultReflectanceScale = 1e-4

// LoadEnv loads the first .env file found among paths. A missing file is not
// an error; the process environment is used as is.
func LoadEnv(paths ...string) string {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// ReflectanceScale converts stored digital numbers to reflectance.
func ReflectanceScale() float64 {
	v := os.Getenv("REFLECTANCE_SCALE")
	if v == "" {
		return defaultReflectanceScale
	}
	scale, err := strconv.ParseFloat(v, 64)
	if err != nil || scale <= 0 {
		return defaultReflectanceScale
	}
	return scale
}

type Color struct {
	R, G, B uint8
}

// ClassColors is the quicklook palette, keyed by class code.
var ClassColors = map[uint8]Color{
	0:  {0, 0, 0},
	4:  {34, 139, 34},
	5:  {181, 136, 84},
	6:  {30, 90, 200},
	7:  {128, 128, 128},
	8:  {200, 200, 200},
	9:  {255, 255, 255},
	10: {120, 220, 255},
	11: {255, 120, 220},
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
