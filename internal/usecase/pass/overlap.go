package pass

import (
	"context"
	"fmt"

	"github.com/vkotov/checkpoint/internal/domain"
)

// checkOverlap проверяет, что окно кандидата не пересекается с окном
// другого открытого (active/delayed) пропуска того же пользователя
// с тем же типом субъекта на той же территории.
//
// Проверка выполняется на каждом создании и на каждом изменении окна.
// Она не является непрерывно поддерживаемым инвариантом: две одновременные
// конкурирующие регистрации могут обе пройти проверку до коммита
func (s *Service) checkOverlap(ctx context.Context, candidate *domain.Pass) error {
	existing, err := s.passRepo.GetOpenByUserID(ctx, candidate.UserID)
	if err != nil {
		return fmt.Errorf("failed to get open passes: %w", err)
	}

	for _, other := range existing {
		if other.ID == candidate.ID {
			// Изменение собственного окна не конфликтует с самим собой
			continue
		}
		if other.SubjectType() != candidate.SubjectType() {
			continue
		}
		if other.TerritoryID != candidate.TerritoryID {
			continue
		}
		if candidate.OverlapsWindow(other) {
			s.logger.Warn("Pass overlap detected", map[string]interface{}{
				"candidate_id": candidate.ID,
				"existing_id":  other.ID,
				"user_id":      candidate.UserID,
			})
			return &domain.PassOverlapError{
				CandidateID: candidate.ID,
				ExistingID:  other.ID,
			}
		}
	}

	return nil
}
