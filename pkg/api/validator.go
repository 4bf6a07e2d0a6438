package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("coordinates cannot be negative")
	}
	return nil
}

func (p EntityPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p AbilityPayload) Validate() error {
	if p.Ability == "" {
		return errors.New("ability is required")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.Item == "" {
		return errors.New("item is required")
	}
	return nil
}

func (p SkillPayload) Validate() error {
	if p.Skill == "" {
		return errors.New("skill is required")
	}
	return nil
}

func (p ObjectPayload) Validate() error {
	if p.ObjectID == "" {
		return errors.New("objectId is required")
	}
	return nil
}

func (p ThrowPayload) Validate() error {
	if p.Item == "" {
		return errors.New("item is required")
	}
	if p.X < 0 || p.Y < 0 {
		return errors.New("coordinates cannot be negative")
	}
	return nil
}
