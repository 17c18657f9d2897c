package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelWhatsapp NotificationChannel = "whatsapp"
	NotificationChannelNone     NotificationChannel = "none"
)

const (
	WhatsappTargetTypePersonal = "personal"
	WhatsappTargetTypeGroup    = "group"
)

// LanguageTag is the UI language chosen on the profile screen
type LanguageTag string

const (
	LanguageSystem  LanguageTag = "system"
	LanguageSpanish LanguageTag = "es"
	LanguageEnglish LanguageTag = "en"
)

// DisplayName returns the label shown in the language picker
func (l LanguageTag) DisplayName() string {
	switch l {
	case LanguageSpanish:
		return "Español"
	case LanguageEnglish:
		return "English"
	default:
		return "System default"
	}
}

// ParseLanguageTag falls back to the system language for unknown tags
func ParseLanguageTag(tag string) LanguageTag {
	switch LanguageTag(tag) {
	case LanguageSpanish, LanguageEnglish:
		return LanguageTag(tag)
	default:
		return LanguageSystem
	}
}

// UserPreference stores profile settings for a Firebase user
type UserPreference struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserUID string `gorm:"type:varchar(128);uniqueIndex" json:"user_uid"`

	Language  LanguageTag `gorm:"type:varchar(10);default:'system'" json:"language"`
	DarkTheme bool        `gorm:"default:false" json:"dark_theme"`

	Channel NotificationChannel `gorm:"type:varchar(20);default:'email'" json:"channel"`

	// WhatsApp specific options
	WhatsappTargetType string `gorm:"type:varchar(20);default:'personal'" json:"whatsapp_target_type"` // 'personal' or 'group'
	WhatsappNumber     string `gorm:"type:varchar(50)" json:"whatsapp_number"`
	WhatsappGroupID    string `gorm:"type:varchar(100)" json:"whatsapp_group_id"`
}

// DefaultPreference is used when a user has not saved any settings yet
func DefaultPreference(uid string) UserPreference {
	return UserPreference{
		UserUID:            uid,
		Language:           LanguageSystem,
		Channel:            NotificationChannelEmail,
		WhatsappTargetType: WhatsappTargetTypePersonal,
	}
}
