package handler

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Sontome/web-b2b-thuhongtour/pkg/utils"
)

var airportPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// SetupValidator registers the custom binding tags used by request bodies
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("airport", func(fl validator.FieldLevel) bool {
		return airportPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return utils.IsClock(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := utils.NormalizeDate(fl.Field().String())
		return err == nil
	})
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request body"
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			messages = append(messages, e.Field()+" is required")
		case "airport":
			messages = append(messages, e.Field()+" must be a 3 letter airport code")
		case "clock":
			messages = append(messages, e.Field()+" must be HH:MM")
		case "date":
			messages = append(messages, e.Field()+" must be YYYY-MM-DD")
		case "min":
			messages = append(messages, e.Field()+" must be at least "+e.Param())
		case "oneof":
			messages = append(messages, e.Field()+" must be one of: "+e.Param())
		default:
			messages = append(messages, e.Field()+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}
