package handlers

import (
	"github.com/gofiber/fiber/v3"

	"supportbot/internal/config"
)

// BrandingData contains site branding information for templates.
type BrandingData struct {
	SiteTitle   string
	SiteTagline string
	SiteFooter  string
	SupportURL  string
	DocsURL     string
	AuthEnabled bool
}

// GetBrandingData returns branding data from config for template rendering.
func GetBrandingData(cfg *config.Config) BrandingData {
	return BrandingData{
		SiteTitle:   cfg.SiteTitle,
		SiteTagline: cfg.SiteTagline,
		SiteFooter:  cfg.SiteFooter,
		SupportURL:  cfg.SupportURL,
		DocsURL:     cfg.DocsURL,
		AuthEnabled: cfg.IsAuthEnabled(),
	}
}

// MergeBranding adds branding data to a fiber.Map for template rendering.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	branding := GetBrandingData(cfg)
	data["SiteTitle"] = branding.SiteTitle
	data["SiteTagline"] = branding.SiteTagline
	data["SiteFooter"] = branding.SiteFooter
	data["SupportURL"] = branding.SupportURL
	data["DocsURL"] = branding.DocsURL
	data["AuthEnabled"] = branding.AuthEnabled
	return data
}
