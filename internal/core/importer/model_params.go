package importer

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseModelParams decodes a trainer output document. Keys may arrive in
// snake_case at any object depth. The document must carry both a trainedAt
// timestamp and a prediction, and pass structural validation.
func ParseModelParams(raw []byte) (*models.ModelParams, error) {
	const op = "parse_model_params"

	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, fault.Newf(fault.KindMalformedImport, op, "model file is not a JSON object")
	}

	mapped, ok := MapKeys(doc).(map[string]any)
	if !ok || mapped["prediction"] == nil || mapped["trainedAt"] == nil {
		return nil, fault.New(fault.KindMalformedImport, op, "model parameters need both prediction and trainedAt")
	}

	buf, err := json.Marshal(mapped)
	if err != nil {
		return nil, fault.Newf(fault.KindMalformedImport, op, "re-encode: %v", err)
	}

	var params models.ModelParams
	if err := json.Unmarshal(buf, &params); err != nil {
		return nil, fault.Newf(fault.KindMalformedImport, op, "unexpected field type: %v", err)
	}

	if err := ValidateModelParams(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ValidateModelParams checks the structural constraints of params.
func ValidateModelParams(params *models.ModelParams) error {
	const op = "validate_model_params"

	if err := validate.Struct(params); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return fault.Newf(fault.KindMalformedImport, op, "invalid fields: %s", strings.Join(fields, ", "))
		}
		return fault.Newf(fault.KindMalformedImport, op, "%v", err)
	}

	if d, ok := caldate.ExtractISO(params.Prediction.NextPeriodDate); ok {
		params.Prediction.NextPeriodDate = d
	} else {
		return fault.Newf(fault.KindMalformedImport, op, "prediction.nextPeriodDate %q is not a date", params.Prediction.NextPeriodDate)
	}
	return nil
}
