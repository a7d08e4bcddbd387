package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"agrilog/internal/activity/models"
	"agrilog/internal/activity/store/history"
	id "agrilog/pkg/domain"
)

type PatternVerifierSuite struct {
	suite.Suite
	store    *history.InMemoryStore
	verifier *Verifier
	ctx      context.Context
	userID   id.UserID
}

func TestPatternVerifierSuite(t *testing.T) {
	suite.Run(t, new(PatternVerifierSuite))
}

func (s *PatternVerifierSuite) SetupTest() {
	s.store = history.NewInMemory()

	var err error
	s.verifier, err = New(s.store)
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.userID = id.UserID(uuid.New())
}

func (s *PatternVerifierSuite) seed(category models.Category, crop string, n int) {
	for i := 0; i < n; i++ {
		err := s.store.Append(s.ctx, &models.ActivityRecord{
			ID:        id.NewActivityID(),
			UserID:    s.userID,
			Category:  category,
			Crop:      crop,
			CreatedAt: time.Now().Add(-time.Duration(i+1) * time.Hour),
		})
		s.Require().NoError(err)
	}
}

func (s *PatternVerifierSuite) TestColdStart() {
	result, err := s.verifier.Check(s.ctx, s.userID, models.CategoryPestManagement, "tobacco")
	s.Require().NoError(err)
	s.True(result.Valid)
	s.Equal(0, result.Score)
	s.Empty(result.Reasons)
}

func (s *PatternVerifierSuite) TestRareCategory() {
	s.Run("unseen category over a long history scores fifteen", func() {
		s.seed(models.CategorySoilHealth, "wheat", 20)
		result, err := s.verifier.Check(s.ctx, s.userID, models.CategoryPestManagement, "")
		s.Require().NoError(err)
		s.Equal(15, result.Score)
		s.Contains(result.Reasons[0], "unusual activity type")
	})

	s.Run("short history never triggers the ratio check", func() {
		other := id.UserID(uuid.New())
		for i := 0; i < 5; i++ {
			err := s.store.Append(s.ctx, &models.ActivityRecord{
				ID: id.NewActivityID(), UserID: other,
				Category: models.CategorySoilHealth, CreatedAt: time.Now(),
			})
			s.Require().NoError(err)
		}
		result, err := s.verifier.Check(s.ctx, other, models.CategoryPestManagement, "")
		s.Require().NoError(err)
		s.Equal(0, result.Score)
	})

	s.Run("common category does not trigger", func() {
		result, err := s.verifier.Check(s.ctx, s.userID, models.CategorySoilHealth, "wheat")
		s.Require().NoError(err)
		s.Equal(0, result.Score)
	})
}

func (s *PatternVerifierSuite) TestNewCrop() {
	s.seed(models.CategorySoilHealth, "wheat", 8)

	s.Run("novel crop scores ten", func() {
		result, err := s.verifier.Check(s.ctx, s.userID, models.CategorySoilHealth, "tobacco")
		s.Require().NoError(err)
		s.Equal(10, result.Score)
		s.Contains(result.Reasons[0], "new crop")
	})

	s.Run("crop match is case-insensitive", func() {
		result, err := s.verifier.Check(s.ctx, s.userID, models.CategorySoilHealth, "WHEAT")
		s.Require().NoError(err)
		s.Equal(0, result.Score)
	})

	s.Run("no crop given skips the check", func() {
		result, err := s.verifier.Check(s.ctx, s.userID, models.CategorySoilHealth, "")
		s.Require().NoError(err)
		s.Equal(0, result.Score)
	})
}

func (s *PatternVerifierSuite) TestBothSignalsStack() {
	s.seed(models.CategorySoilHealth, "wheat", 20)
	result, err := s.verifier.Check(s.ctx, s.userID, models.CategoryCropRotation, "tobacco")
	s.Require().NoError(err)
	s.Equal(25, result.Score)
	s.Len(result.Reasons, 2)
}
