package timetable

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/tvcampos/availability_bot/internal/model"
)

// ConfigInput carries the raw configuration form values. Numeric fields are
// parsed by the caller; shift starts stay as entered so format problems can
// be attributed to the right field.
type ConfigInput struct {
	LessonDurationMinutes int    `json:"lesson_duration_minutes" validate:"min=1,max=120"`
	LessonsPerShift       int    `json:"lessons_per_shift" validate:"min=1,max=20"`
	MorningStart          string `json:"morning_start"`
	AfternoonStart        string `json:"afternoon_start"`
	EveningStart          string `json:"evening_start"`
}

// custom validation tags reported by the cross-field checks
const (
	tagTimeFormat   = "time_format"
	tagShiftWindow  = "shift_window"
	tagMaxSpan      = "max_span"
	tagShiftOrder   = "shift_order"
	tagShiftOverlap = "shift_overlap"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	// Use JSON tag names in errors instead of Go struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	registerTranslation(tagTimeFormat, "{0} must be a time in HH:mm format")
	registerTranslation(tagShiftWindow, "{0} must fall inside the institutional window {1}")
	registerTranslation(tagMaxSpan, "{0} pushes the shift span to {1} minutes, above the 360 minute cap")
	registerTranslation(tagShiftOrder, "{0} must be later than the {1}")
	registerTranslation(tagShiftOverlap, "{0} is earlier than the {1}")

	validate.RegisterStructValidation(configCrossChecks, ConfigInput{})
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// ValidateConfig checks the raw form values against every institutional
// constraint in a single pass and returns either the accepted configuration
// or the full list of field-attributed problems. It never short-circuits, so
// a form can display every error at once.
func ValidateConfig(in ConfigInput) (*model.ScheduleConfig, model.ValidationErrors) {
	err := validate.Struct(in)
	if err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) {
			out := make(model.ValidationErrors, 0, len(ferrs))
			for _, fe := range ferrs {
				out = append(out, model.FieldError{Field: fe.Field(), Message: fe.Translate(translator)})
			}
			return nil, out
		}
		return nil, model.ValidationErrors{{Field: "", Message: err.Error()}}
	}

	morning, _ := model.ParseMinuteOfDay(in.MorningStart)
	afternoon, _ := model.ParseMinuteOfDay(in.AfternoonStart)
	evening, _ := model.ParseMinuteOfDay(in.EveningStart)

	return &model.ScheduleConfig{
		LessonDurationMinutes: in.LessonDurationMinutes,
		LessonsPerShift:       in.LessonsPerShift,
		MorningStart:          morning,
		AfternoonStart:        afternoon,
		EveningStart:          evening,
	}, nil
}

// configCrossChecks reports every violated cross-field constraint: the shift
// span cap (attributed to both numeric fields), per-shift windows, pairwise
// start ordering and computed-end overlap (attributed to the later shift).
func configCrossChecks(sl validator.StructLevel) {
	in := sl.Current().Interface().(ConfigInput)

	span := in.LessonDurationMinutes * in.LessonsPerShift
	spanValid := in.LessonDurationMinutes >= 1 && in.LessonDurationMinutes <= model.MaxLessonDurationMinutes &&
		in.LessonsPerShift >= 1 && in.LessonsPerShift <= model.MaxLessonsPerShift

	if spanValid && span > model.MaxShiftSpanMinutes {
		sl.ReportError(in.LessonDurationMinutes, "lesson_duration_minutes", "LessonDurationMinutes", tagMaxSpan, strconv.Itoa(span))
		sl.ReportError(in.LessonsPerShift, "lessons_per_shift", "LessonsPerShift", tagMaxSpan, strconv.Itoa(span))
		spanValid = false
	}

	starts := make(map[model.Shift]model.MinuteOfDay, 3)
	for _, shift := range model.Shifts() {
		raw := rawStart(in, shift)
		start, err := model.ParseMinuteOfDay(raw)
		if err != nil {
			sl.ReportError(raw, startFieldName(shift), startStructField(shift), tagTimeFormat, "")
			continue
		}

		lo, hi := shift.Window()
		if start < lo || start > hi {
			sl.ReportError(raw, startFieldName(shift), startStructField(shift), tagShiftWindow, lo.String()+"-"+hi.String())
			continue
		}

		starts[shift] = start
	}

	pairs := [][2]model.Shift{
		{model.ShiftMorning, model.ShiftAfternoon},
		{model.ShiftAfternoon, model.ShiftEvening},
	}
	for _, pair := range pairs {
		earlier, later := pair[0], pair[1]
		earlierStart, okE := starts[earlier]
		laterStart, okL := starts[later]
		if !okE || !okL {
			continue
		}

		if laterStart <= earlierStart {
			sl.ReportError(rawStart(in, later), startFieldName(later), startStructField(later), tagShiftOrder,
				fmt.Sprintf("%s shift start (%s)", earlier, earlierStart))
			continue
		}

		if spanValid {
			earlierEnd := earlierStart + model.MinuteOfDay(span)
			if earlierEnd > laterStart {
				sl.ReportError(rawStart(in, later), startFieldName(later), startStructField(later), tagShiftOverlap,
					fmt.Sprintf("%s shift ending at %s", earlier, earlierEnd))
			}
		}
	}
}

func rawStart(in ConfigInput, shift model.Shift) string {
	switch shift {
	case model.ShiftMorning:
		return in.MorningStart
	case model.ShiftAfternoon:
		return in.AfternoonStart
	default:
		return in.EveningStart
	}
}

func startFieldName(shift model.Shift) string {
	return string(shift) + "_start"
}

func startStructField(shift model.Shift) string {
	switch shift {
	case model.ShiftMorning:
		return "MorningStart"
	case model.ShiftAfternoon:
		return "AfternoonStart"
	default:
		return "EveningStart"
	}
}
