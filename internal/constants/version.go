package constants

// Версия и хеш коммита подставляются при сборке:
//
//	go build -ldflags "-X github.com/Kargones/dbrename/internal/constants.Version=1.2.0 \
//	  -X github.com/Kargones/dbrename/internal/constants.PreCommitHash=$(git rev-parse --short HEAD)"
var (
	// Version - версия приложения
	Version = "dev"
	// PreCommitHash - хеш коммита на момент сборки
	PreCommitHash = ""
)
