package handlers

import (
	"time"

	"auzland/internal/ai"
	"auzland/internal/config"
	"auzland/internal/repos"
	"auzland/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler       *AuthHandler
	ListingsHandler   *ListingsHandler
	PropertiesHandler *PropertiesHandler
	MediaHandler      *MediaHandler
	ContactHandler    *ContactHandler
	AIHandler         *AIHandler
	AdminHandler      *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	blobRepo := repos.NewBlobRepo(db)
	contactRepo := repos.NewContactRepo(db)
	userRepo := repos.NewUserRepo(db)

	listingSvc := services.NewListingService(blobRepo)
	mediaSvc := services.NewMediaService(cfg.MediaDir, cfg.MediaSigningKey,
		time.Duration(cfg.MediaURLTTL)*time.Second)
	contactSvc := services.NewContactService(contactRepo,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.ContactFrom, cfg.ContactTo)
	translator := ai.NewTranslator(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)

	return &Deps{
		AuthHandler:       &AuthHandler{Auth: auth},
		ListingsHandler:   &ListingsHandler{Listings: listingSvc},
		PropertiesHandler: &PropertiesHandler{Listings: listingSvc},
		MediaHandler:      &MediaHandler{Media: mediaSvc},
		ContactHandler:    &ContactHandler{Contact: contactSvc},
		AIHandler:         &AIHandler{Translator: translator},
		AdminHandler:      &AdminHandler{Auth: auth, Users: userRepo, Contacts: contactRepo},
	}
}
