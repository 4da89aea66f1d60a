package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ppiankov/aegis/internal/model"
)

// wireReport mirrors the /analyze response with pointer fields so that
// missing and null values can be told apart from zero values.
type wireReport struct {
	AIScore *float64      `json:"ai_score"`
	Claims  *[]*wireClaim `json:"claims"`
}

type wireClaim struct {
	Claim  *string `json:"claim"`
	Rating *string `json:"rating"`
	Source *string `json:"source"`
}

// DecodeReport parses and checks an /analyze response body. Field presence
// and types are enforced; values are adopted as-is (ai_score is not clamped).
func DecodeReport(body []byte) (model.TrustReport, error) {
	var wire wireReport
	if err := json.Unmarshal(body, &wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.TrustReport{}, fmt.Errorf("field %q: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return model.TrustReport{}, fmt.Errorf("decode body: %w", err)
	}

	if wire.AIScore == nil {
		return model.TrustReport{}, errors.New("missing ai_score")
	}
	if wire.Claims == nil {
		return model.TrustReport{}, errors.New("missing claims")
	}

	claims := make([]model.Claim, 0, len(*wire.Claims))
	for i, c := range *wire.Claims {
		if c == nil {
			return model.TrustReport{}, fmt.Errorf("claims[%d]: null entry", i)
		}
		if c.Claim == nil {
			return model.TrustReport{}, fmt.Errorf("claims[%d]: missing claim", i)
		}
		if c.Rating == nil {
			return model.TrustReport{}, fmt.Errorf("claims[%d]: missing rating", i)
		}
		claim := model.Claim{
			Claim:  *c.Claim,
			Rating: *c.Rating,
		}
		if c.Source != nil {
			claim.Source = *c.Source
		}
		claims = append(claims, claim)
	}

	return model.TrustReport{
		AIScore: *wire.AIScore,
		Claims:  claims,
	}, nil
}
