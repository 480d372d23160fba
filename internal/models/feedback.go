package models

import "github.com/shopspring/decimal"

var (
	minStars = decimal.Zero
	maxStars = decimal.NewFromInt(5)
)

// Rating is a star value between 0.0 and 5.0 in steps of 0.5.
type Rating struct {
	record
	stars decimal.Decimal
}

// NewRating creates an unsaved [Rating].
func NewRating(stars decimal.Decimal) *Rating {
	return &Rating{record: newRecord(), stars: stars}
}

func (r *Rating) Stars() decimal.Decimal { return r.stars }
func (r *Rating) SetStars(stars decimal.Decimal) { r.stars = stars }

// Validate checks the range, precision, and half-star step of the value.
func (r *Rating) Validate() error {
	v := &validator{}
	v.run("stars", ValidateDecimal(r.stars, minStars, maxStars, 1))
	v.run("stars", ValidateHalfStep(r.stars))
	return v.err()
}

// Comment is a free-text remark.
type Comment struct {
	record
	text string
}

// NewComment creates an unsaved [Comment].
func NewComment(text string) *Comment {
	return &Comment{record: newRecord(), text: text}
}

func (c *Comment) Text() string { return c.text }
func (c *Comment) SetText(text string) { c.text = text }

// Validate checks the comment text.
func (c *Comment) Validate() error {
	v := &validator{}
	v.required("comment_text", c.text).maxLen("comment_text", c.text)
	return v.err()
}
