package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/scoring"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchService interface {
	MatchItem(ctx context.Context, itemID string) (*MatchItemResult, error)
	MatchAll(ctx context.Context) (*MatchAllResult, error)
	ListForUser(ctx context.Context, userID string) ([]*models.MatchWithItems, error)
	ListAll(ctx context.Context) ([]*models.MatchWithItems, error)
	GetByID(ctx context.Context, id string) (*models.MatchDetail, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// MatchItemResult - итог подбора для одного объявления. Matches содержит
// весь топ прошедших порог кандидатов, включая пары, которые уже были
// сохранены ранее.
type MatchItemResult struct {
	MatchesFound      int                      `json:"matches_found"`
	NewMatchesCreated int                      `json:"new_matches_created"`
	Matches           []*models.MatchCandidate `json:"matches"`
}

// MatchAllResult - итог пакетного подбора, только счетчики
type MatchAllResult struct {
	LostItemsProcessed int `json:"lost_items_processed"`
	FoundItemsCompared int `json:"found_items_compared"`
	NewMatchesCreated  int `json:"new_matches_created"`
}

type matchService struct {
	itemRepo  repository.ItemRepository
	matchRepo repository.MatchRepository
	notifier  Notifier
}

func NewMatchService(itemRepo repository.ItemRepository, matchRepo repository.MatchRepository, notifier Notifier) MatchService {
	return &matchService{
		itemRepo:  itemRepo,
		matchRepo: matchRepo,
		notifier:  notifier,
	}
}

// MatchItem подбирает совпадения для одного объявления: оценивает все
// активные объявления противоположного типа, отбрасывает оценки ниже
// порога, сортирует по убыванию и сохраняет до десяти лучших пар.
func (s *matchService) MatchItem(ctx context.Context, itemID string) (*MatchItemResult, error) {
	source, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	candidates, err := s.itemRepo.ListActiveByType(ctx, source.OppositeType())
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	var scored []*models.MatchCandidate
	for _, candidate := range candidates {
		score := scoring.Score(source, candidate)
		if score >= scoring.MatchThreshold {
			scored = append(scored, &models.MatchCandidate{Item: candidate, Score: score})
		}
	}

	// Стабильная сортировка: при равных оценках сохраняется порядок
	// кандидатов из выборки (свежие первыми)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > scoring.MaxCandidates {
		scored = scored[:scoring.MaxCandidates]
	}

	created := 0
	for _, candidate := range scored {
		lostID, foundID := pairIDs(source, candidate.Item)

		exists, err := s.matchRepo.Exists(ctx, lostID, foundID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing match: %w", err)
		}
		if exists {
			continue
		}

		match := &models.Match{
			ID:          uuid.NewString(),
			LostItemID:  lostID,
			FoundItemID: foundID,
			MatchScore:  candidate.Score,
			Status:      models.MatchStatusPending,
		}

		inserted, err := s.matchRepo.Create(ctx, match)
		if err != nil {
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
		if inserted {
			created++
			s.notifyMatch(ctx, match, source, candidate.Item)
		}
	}

	result := &MatchItemResult{
		MatchesFound:      len(scored),
		NewMatchesCreated: created,
		Matches:           scored,
	}
	if result.Matches == nil {
		result.Matches = []*models.MatchCandidate{}
	}
	return result, nil
}

// MatchAll прогоняет полное декартово произведение активных потерянных и
// найденных вещей. Порог тот же, но ограничения на количество нет:
// пакетный режим сохраняет все подходящие новые пары. Ошибка сохранения
// одной пары не прерывает обработку остальных.
func (s *matchService) MatchAll(ctx context.Context) (*MatchAllResult, error) {
	lostItems, err := s.itemRepo.ListActiveByType(ctx, models.ItemTypeLost)
	if err != nil {
		return nil, fmt.Errorf("failed to load lost items: %w", err)
	}

	foundItems, err := s.itemRepo.ListActiveByType(ctx, models.ItemTypeFound)
	if err != nil {
		return nil, fmt.Errorf("failed to load found items: %w", err)
	}

	created := 0
	for _, lost := range lostItems {
		for _, found := range foundItems {
			score := scoring.Score(lost, found)
			if score < scoring.MatchThreshold {
				continue
			}

			exists, err := s.matchRepo.Exists(ctx, lost.ID, found.ID)
			if err != nil {
				log.Printf("Batch matching: exists check failed for pair (%s, %s): %v", lost.ID, found.ID, err)
				continue
			}
			if exists {
				continue
			}

			match := &models.Match{
				ID:          uuid.NewString(),
				LostItemID:  lost.ID,
				FoundItemID: found.ID,
				MatchScore:  score,
				Status:      models.MatchStatusPending,
			}

			inserted, err := s.matchRepo.Create(ctx, match)
			if err != nil {
				log.Printf("Batch matching: create failed for pair (%s, %s): %v", lost.ID, found.ID, err)
				continue
			}
			if inserted {
				created++
				s.notifyMatch(ctx, match, lost, found)
			}
		}
	}

	return &MatchAllResult{
		LostItemsProcessed: len(lostItems),
		FoundItemsCompared: len(foundItems),
		NewMatchesCreated:  created,
	}, nil
}

// notifyMatch отправляет уведомления обеим сторонам. Сбой доставки
// логируется и не влияет на результат подбора.
func (s *matchService) notifyMatch(ctx context.Context, match *models.Match, a, b *models.Item) {
	if s.notifier == nil {
		return
	}

	lost, found := a, b
	if a.Type != models.ItemTypeLost {
		lost, found = b, a
	}

	if err := s.notifier.NotifyMatch(ctx, match, lost, found); err != nil {
		log.Printf("Failed to send match notification for %s: %v", match.ID, err)
	}
}

// pairIDs раскладывает пару источник-кандидат по ролям lost/found
func pairIDs(source, candidate *models.Item) (lostID, foundID string) {
	if source.Type == models.ItemTypeLost {
		return source.ID, candidate.ID
	}
	return candidate.ID, source.ID
}

func (s *matchService) ListForUser(ctx context.Context, userID string) ([]*models.MatchWithItems, error) {
	return s.matchRepo.ListByUser(ctx, userID)
}

func (s *matchService) ListAll(ctx context.Context) ([]*models.MatchWithItems, error) {
	return s.matchRepo.ListAll(ctx)
}

func (s *matchService) GetByID(ctx context.Context, id string) (*models.MatchDetail, error) {
	detail, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, id, status string) error {
	if _, err := s.matchRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.matchRepo.UpdateStatus(ctx, id, status)
}
