package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// SkillUnlocked - полезная нагрузка SKILL_UNLOCKED
type SkillUnlocked struct {
	Skill       string   `json:"skill"`
	SkillPoints int      `json:"skillPoints"`
	Available   []string `json:"available"`
}

// HandleUnlockSkill открывает навык класса за очко навыка (AP не тратит)
func HandleUnlockSkill(ctx handlers.Context, p api.SkillPayload) (handlers.Result, error) {
	actor := ctx.Actor

	ok, err := actor.UnlockSkill(p.Skill)
	if err != nil {
		return handlers.Result{}, err
	}
	if !ok {
		// Уже открыт - ничего не меняем
		return handlers.Result{Msg: fmt.Sprintf("%s уже владеет навыком %s.", actor.Name, p.Skill), MsgType: "INFO"}, nil
	}

	payload := SkillUnlocked{Skill: p.Skill}
	if actor.Progression != nil {
		payload.SkillPoints = actor.Progression.SkillPoints
	}
	payload.Available = actor.Class.Tree.Available()

	return handlers.Result{
		Msg:     fmt.Sprintf("%s осваивает навык %s.", actor.Name, p.Skill),
		MsgType: "INFO",
		Events:  handlers.Emit(ctx, domain.EventSkillUnlocked, payload),
	}, nil
}
