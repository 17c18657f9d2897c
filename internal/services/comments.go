package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"journeylink_app/internal/models"
)

// ErrEmptyComment is returned when posting a blank comment
var ErrEmptyComment = errors.New("comment is empty")

type CommentService struct {
	docs DocumentStore
}

func NewCommentService(docs DocumentStore) *CommentService {
	return &CommentService{docs: docs}
}

// ForRecipient returns the comments left for a companion
func (s *CommentService) ForRecipient(ctx context.Context, recipient string) ([]models.Comment, error) {
	docs, err := s.docs.Query(ctx, models.CollectionComments, "destinatario", recipient)
	if err != nil {
		return nil, fmt.Errorf("comments for %s: %w", recipient, err)
	}

	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, commentFromDoc(doc))
	}
	return comments, nil
}

// Post stores a new comment signed with the author's e-mail local part
func (s *CommentService) Post(ctx context.Context, authorEmail, recipient, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, ErrEmptyComment
	}

	c := models.Comment{
		Author:    AuthorName(authorEmail),
		Content:   content,
		Recipient: recipient,
		LikedBy:   []string{},
	}
	id, err := s.docs.Create(ctx, models.CollectionComments, c.ToMap())
	if err != nil {
		return models.Comment{}, fmt.Errorf("post comment: %w", err)
	}
	c.ID = id
	return c, nil
}

// ToggleLike likes the comment for uid, or removes the like if already given.
// The read and the write happen in one transaction; the like count never
// drops below zero and is stored as a string, as the app always has.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, uid string) (models.Comment, error) {
	var c models.Comment
	err := s.docs.Modify(ctx, models.CollectionComments, commentID, func(data map[string]any) (map[string]any, error) {
		c = commentFromDoc(Document{ID: commentID, Data: data})
		var op ArrayOp
		if c.IsLikedBy(uid) {
			c.Likes = max(c.Likes-1, 0)
			c.LikedBy = removeString(c.LikedBy, uid)
			op = ArrayRemove(uid)
		} else {
			c.Likes++
			c.LikedBy = append(c.LikedBy, uid)
			op = ArrayUnion(uid)
		}
		return map[string]any{
			"likes":   strconv.Itoa(c.Likes),
			"likedBy": op,
		}, nil
	})
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return models.Comment{}, err
		}
		return models.Comment{}, fmt.Errorf("toggle like on %s: %w", commentID, err)
	}
	return c, nil
}

func commentFromDoc(doc Document) models.Comment {
	return models.Comment{
		ID:        doc.ID,
		Author:    stringField(doc.Data, "autor"),
		Content:   stringField(doc.Data, "contenido"),
		Recipient: stringField(doc.Data, "destinatario"),
		Likes:     intField(doc.Data, "likes"),
		LikedBy:   stringsField(doc.Data, "likedBy"),
	}
}

func removeString(values []string, v string) []string {
	out := values[:0]
	for _, s := range values {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
