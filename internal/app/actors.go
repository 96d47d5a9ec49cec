package service

import (
	"context"
	"fmt"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/logger"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// AddActor stores a new actor of any kind and returns it with its id.
func (s *Service) AddActor(ctx context.Context, a model.Actor) (model.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Actor{}, ErrNotStarted
	}

	switch a.Kind {
	case model.KindPerson, model.KindAIAgent, model.KindWebhook:
		a.Group = nil
	case model.KindGroup:
		if a.Group == nil {
			a.Group = &model.GroupData{}
		}
	default:
		return model.Actor{}, fmt.Errorf("%w: %q", ErrBadKind, a.Kind)
	}

	id, err := s.store.InsertActor(ctx, a)
	if err != nil {
		return model.Actor{}, err
	}
	a.ID = id
	s.logger.Debug(ctx, "actor added",
		logger.Int64("id", id),
		logger.String("kind", string(a.Kind)),
	)
	return a, nil
}

// AddPerson is a convenience wrapper for the common kind.
func (s *Service) AddPerson(ctx context.Context, name, initials, color string) (model.Actor, error) {
	return s.AddActor(ctx, model.Actor{
		Kind:     model.KindPerson,
		Name:     name,
		Initials: initials,
		Color:    color,
	})
}

// AddGroup creates an empty group.
func (s *Service) AddGroup(ctx context.Context, name, initials, color string, showAsMarker bool) (model.Actor, error) {
	return s.AddActor(ctx, model.Actor{
		Kind:     model.KindGroup,
		Name:     name,
		Initials: initials,
		Color:    color,
		Group:    &model.GroupData{ShowAsMarker: showAsMarker},
	})
}

// GetActor returns one actor by id.
func (s *Service) GetActor(ctx context.Context, id int64) (model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Actor{}, ErrNotStarted
	}
	return s.store.GetActor(ctx, id)
}

// Actors lists actors ascending by id. An empty kind lists all kinds.
func (s *Service) Actors(ctx context.Context, kind model.ActorKind) ([]model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Actors(ctx, kind)
}

// UpdateActor applies a partial patch and returns the updated actor.
// Omitted fields keep their values; group payload keys merge.
func (s *Service) UpdateActor(ctx context.Context, id int64, patch model.ActorPatch) (model.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Actor{}, ErrNotStarted
	}
	if err := s.store.UpdateActor(ctx, id, patch); err != nil {
		return model.Actor{}, err
	}
	return s.store.GetActor(ctx, id)
}

// RemoveActor deletes an actor and cascades: its assignment rows go first,
// then its id is stripped from every containing group, then the actor row.
// Cell slots freed by the cascade are not refilled.
func (s *Service) RemoveActor(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if _, err := s.store.GetActor(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeleteAssignmentsByActor(ctx, id); err != nil {
		return err
	}

	groups, err := s.store.Actors(ctx, model.KindGroup)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if !g.HasMember(id) {
			continue
		}
		kept := make([]int64, 0, len(g.MemberIDs())-1)
		for _, mid := range g.MemberIDs() {
			if mid != id {
				kept = append(kept, mid)
			}
		}
		patch := model.ActorPatch{Group: &model.GroupPatch{MemberIDs: &kept}}
		if err := s.store.UpdateActor(ctx, g.ID, patch); err != nil {
			return err
		}
	}

	if err := s.store.DeleteActor(ctx, id); err != nil {
		return err
	}

	metrics.RecordCascadeDelete("actor")
	s.logger.Info(ctx, "actor removed", logger.Int64("id", id))
	return nil
}

// GroupMembers resolves a group's member ids to actors, skipping ids that
// no longer exist.
func (s *Service) GroupMembers(ctx context.Context, groupID int64) ([]model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.groupMembers(ctx, groupID)
}

// groupMembers assumes the caller holds the lock.
func (s *Service) groupMembers(ctx context.Context, groupID int64) ([]model.Actor, error) {
	group, err := s.store.GetActor(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsGroup() {
		return nil, fmt.Errorf("%w: id %d", ErrNotGroup, groupID)
	}

	members := make([]model.Actor, 0, len(group.MemberIDs()))
	for _, id := range group.MemberIDs() {
		a, err := s.store.GetActor(ctx, id)
		if err != nil {
			continue
		}
		members = append(members, a)
	}
	return members, nil
}

// CanAddMember reports whether the candidate may join the group without
// breaking the hierarchy invariants. It never mutates.
func (s *Service) CanAddMember(ctx context.Context, groupID, candidateID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if group, err := s.store.GetActor(ctx, groupID); err != nil {
		return false, err
	} else if !group.IsGroup() {
		return false, fmt.Errorf("%w: id %d", ErrNotGroup, groupID)
	}
	if _, err := s.store.GetActor(ctx, candidateID); err != nil {
		return false, err
	}
	return s.validator.CanAddMember(ctx, groupID, candidateID), nil
}

// AddMember validates and appends a member inside one critical section so
// the graph cannot change between the check and the write. Returns false
// when the hierarchy rules reject the addition; adding an existing member
// again is a no-op success.
func (s *Service) AddMember(ctx context.Context, groupID, memberID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false, ErrNotStarted
	}
	group, err := s.store.GetActor(ctx, groupID)
	if err != nil {
		return false, err
	}
	if !group.IsGroup() {
		return false, fmt.Errorf("%w: id %d", ErrNotGroup, groupID)
	}
	if _, err := s.store.GetActor(ctx, memberID); err != nil {
		return false, err
	}
	if group.HasMember(memberID) {
		return true, nil
	}

	if !s.validator.CanAddMember(ctx, groupID, memberID) {
		s.logger.Debug(ctx, "member addition rejected",
			logger.Int64("groupId", groupID),
			logger.Int64("memberId", memberID),
		)
		return false, nil
	}

	ids := append(group.MemberIDs(), memberID)
	patch := model.ActorPatch{Group: &model.GroupPatch{MemberIDs: &ids}}
	if err := s.store.UpdateActor(ctx, groupID, patch); err != nil {
		return false, err
	}

	metrics.RecordMemberAdded()
	return true, nil
}

// RemoveMember strips a member id from a group. Absent members are a no-op.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	group, err := s.store.GetActor(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsGroup() {
		return fmt.Errorf("%w: id %d", ErrNotGroup, groupID)
	}
	if !group.HasMember(memberID) {
		return nil
	}

	kept := make([]int64, 0, len(group.MemberIDs())-1)
	for _, id := range group.MemberIDs() {
		if id != memberID {
			kept = append(kept, id)
		}
	}
	patch := model.ActorPatch{Group: &model.GroupPatch{MemberIDs: &kept}}
	return s.store.UpdateActor(ctx, groupID, patch)
}

// GroupDepth returns the longest group-only chain below the actor.
func (s *Service) GroupDepth(ctx context.Context, id int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	return s.validator.GroupDepth(ctx, id), nil
}

// GroupHeight returns the longest parent chain above the group.
func (s *Service) GroupHeight(ctx context.Context, id int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	return s.validator.GroupHeight(ctx, id), nil
}
