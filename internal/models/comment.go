package models

import "strconv"

// Comment is a review left on a companion's page
type Comment struct {
	ID        string `firestore:"-" json:"id"`
	Author    string `firestore:"autor" json:"author"`
	Content   string `firestore:"contenido" json:"content"`
	Recipient string `firestore:"destinatario" json:"recipient"`
	// Likes is stored as a decimal string in the likes field
	Likes   int      `firestore:"-" json:"likes"`
	LikedBy []string `firestore:"likedBy" json:"liked_by"`
}

// IsLikedBy reports whether uid has liked the comment
func (c Comment) IsLikedBy(uid string) bool {
	for _, id := range c.LikedBy {
		if id == uid {
			return true
		}
	}
	return false
}

// ToMap returns the fields of a new comment document
func (c Comment) ToMap() map[string]any {
	likedBy := c.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return map[string]any{
		"autor":        c.Author,
		"contenido":    c.Content,
		"destinatario": c.Recipient,
		"likes":        strconv.Itoa(c.Likes),
		"likedBy":      likedBy,
	}
}
