package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dottify/internal/shared"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

// Rate records a star rating.
func (r *Runner) Rate(ctx context.Context, cmd *cli.Command) error {
	stars, err := decimal.NewFromString(cmd.String("stars"))
	if err != nil {
		return fmt.Errorf("%w: --stars %q is not a number", shared.ErrInvalidFlag, cmd.String("stars"))
	}

	svc, err := r.open()
	if err != nil {
		return err
	}

	rating, err := svc.Rate(stars)
	if err != nil {
		return err
	}
	return r.writePlain("%s rated %s stars (%s)\n", r.palette.OK("✓"), rating.Stars().StringFixed(1), rating.ID())
}

// Comment records a comment.
func (r *Runner) Comment(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	comment, err := svc.Comment(cmd.String("text"))
	if err != nil {
		return err
	}
	return r.writePlain("%s saved comment (%s)\n", r.palette.OK("✓"), comment.ID())
}
