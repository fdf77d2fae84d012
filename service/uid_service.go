package service

import (
	"context"
	"fmt"

	"github.com/sony/sonyflake"
)

// sonyflakeUID generates message and user identifiers that sort by creation
// time within a machine.
type sonyflakeUID struct {
	generator *sonyflake.Sonyflake
}

func NewSonyflakeUID(generator *sonyflake.Sonyflake) *sonyflakeUID {
	return &sonyflakeUID{
		generator: generator,
	}
}

func (s *sonyflakeUID) NewUID(ctx context.Context) (uint64, error) {
	id, err := s.generator.NextID()
	if err != nil {
		return 0, fmt.Errorf("next sonyflake id: %w", err)
	}

	return id, nil
}
