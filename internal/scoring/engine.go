package scoring

import (
	"errors"

	"boardroom/internal/catalog"
	"boardroom/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrMVPSelectionMissing is returned when an MVP play has no resolved
	// selection attached.
	ErrMVPSelectionMissing = errors.New("mvp play has no selection to consume")
	// ErrMVPSelectionConsumed is returned when the referenced MVP selection
	// was already spent in an earlier round.
	ErrMVPSelectionConsumed = errors.New("mvp selection already consumed")
)

// Selection is the card choice being priced for one round.
type Selection struct {
	RoleCardID    string
	SynergyCardID string
	Special       domain.SpecialCardType

	// MVP is the resolved selection being consumed when Special is
	// SpecialMVP; its card substitutes into the standard path.
	MVP *domain.MVPSelection
}

// Result carries the score breakdown recorded on a RoundPlay.
type Result struct {
	BaseScore            int
	SynergyMultiplier    float64
	CSuiteMultiplier     float64
	SoftSkillsMultiplier float64
	FinalScore           int

	// RoleCardID / SynergyCardID echo the cards actually priced, after any
	// MVP substitution.
	RoleCardID    string
	SynergyCardID string
}

// Engine computes a participant's score for one round. It is a pure function
// over the catalog data: identical inputs always produce identical results,
// and it mutates nothing.
type Engine struct {
	eval catalog.Evaluator
}

// NewEngine constructs a scoring engine over the given evaluator.
func NewEngine(eval catalog.Evaluator) *Engine {
	return &Engine{eval: eval}
}

// Score prices a selection against the round's challenge card.
//
// Golden plays award the fixed bonus regardless of any cards supplied.
// Standard plays score base = role + synergy evaluation, then apply the
// synergy, C-suite and soft-skills multipliers and round to the nearest
// point. MVP plays substitute the earmarked card into the standard path.
func (e *Engine) Score(sel Selection, participant *domain.Participant, challenge *domain.ChallengeCard, round int) (Result, error) {
	if sel.Special == domain.SpecialGolden {
		return Result{
			SynergyMultiplier:    1,
			CSuiteMultiplier:     1,
			SoftSkillsMultiplier: 1,
			FinalScore:           domain.GoldenCardBonus,
			RoleCardID:           sel.RoleCardID,
			SynergyCardID:        sel.SynergyCardID,
		}, nil
	}

	roleID := sel.RoleCardID
	synergyID := sel.SynergyCardID
	if sel.Special == domain.SpecialMVP {
		if sel.MVP == nil {
			return Result{}, ErrMVPSelectionMissing
		}
		if sel.MVP.Consumed() {
			return Result{}, ErrMVPSelectionConsumed
		}
		// The earmarked card slots into the position matching its kind and
		// displaces whatever was there.
		if e.eval.IsSynergyCard(sel.MVP.CardID) && !e.eval.IsRoleCard(sel.MVP.CardID) {
			synergyID = sel.MVP.CardID
		} else {
			roleID = sel.MVP.CardID
		}
	}

	baseScore, err := e.baseScore(roleID, synergyID, challenge)
	if err != nil {
		return Result{}, err
	}

	synergyMult, err := e.eval.SynergyMultiplier(roleID, synergyID)
	if err != nil {
		return Result{}, err
	}
	csuiteMult := e.eval.CSuiteMultiplier(participant.CSuiteRole)
	softSkillsMult, err := e.eval.SoftSkillsMultiplier(roleID, synergyID, challenge)
	if err != nil {
		return Result{}, err
	}

	final := decimal.NewFromInt(int64(baseScore)).
		Mul(decimal.NewFromFloat(synergyMult)).
		Mul(decimal.NewFromFloat(csuiteMult)).
		Mul(decimal.NewFromFloat(softSkillsMult)).
		Round(0).IntPart()
	if final < 0 {
		final = 0
	}

	return Result{
		BaseScore:            baseScore,
		SynergyMultiplier:    synergyMult,
		CSuiteMultiplier:     csuiteMult,
		SoftSkillsMultiplier: softSkillsMult,
		FinalScore:           int(final),
		RoleCardID:           roleID,
		SynergyCardID:        synergyID,
	}, nil
}

func (e *Engine) baseScore(roleID, synergyID string, challenge *domain.ChallengeCard) (int, error) {
	score, err := e.eval.EvaluateRoleCard(roleID, challenge)
	if err != nil {
		return 0, err
	}
	if synergyID != "" {
		synergyScore, err := e.eval.EvaluateSynergyCard(synergyID, challenge)
		if err != nil {
			return 0, err
		}
		score += synergyScore
	}
	return score, nil
}
