package domain

// Kind is the stable machine-readable code of a domain error.
type Kind string

const (
	KindQuestionNotFound         Kind = "error_question_is_not_exist"
	KindQuizNotFound             Kind = "error_quiz_is_not_exist"
	KindOptionNotFound           Kind = "error_question_item_not_found"
	KindUserNotFound             Kind = "error_user_does_not_exist"
	KindUnknownAnswerType        Kind = "error_type_question_is_not_exist"
	KindEmptyAnswerText          Kind = "error_question_answer_text_is_empty"
	KindNoOptionsSelected        Kind = "error_question_answer_items_length_is_zero"
	KindTooManyOptionsSelected   Kind = "error_question_answer_items_length_is_more_one"
	KindOptionNotOwnedByQuestion Kind = "error_question_answer_items_not_belong_to_question"
	KindOptionsRequired          Kind = "error_question_item_is_not_exist"
	KindOptionsNotAllowedForType Kind = "error_question_item_not_necessary"
	KindOptionNameTooLong        Kind = "error_question_item_name_too_long"
	KindImmutableFieldChanged    Kind = "error_change_start_date"
	KindInvalidDateRange         Kind = "error_finish_date_before_start_date"
)

// Error is a domain error with a stable kind. Two errors match under
// errors.Is when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NotFound reports whether the error refers to a missing resource.
func (e *Error) NotFound() bool {
	switch e.Kind {
	case KindQuestionNotFound, KindQuizNotFound, KindOptionNotFound, KindUserNotFound:
		return true
	}
	return false
}

var (
	// ErrQuestionNotFound indicates a referenced question ID does not exist.
	ErrQuestionNotFound = &Error{Kind: KindQuestionNotFound, Message: "question does not exist"}
	// ErrQuizNotFound indicates a referenced quiz ID does not exist.
	ErrQuizNotFound = &Error{Kind: KindQuizNotFound, Message: "quiz does not exist"}
	// ErrOptionNotFound indicates a referenced question option ID does not exist.
	ErrOptionNotFound = &Error{Kind: KindOptionNotFound, Message: "question_item does not exist"}
	// ErrUserNotFound is returned when a report is requested for an unknown user name.
	ErrUserNotFound = &Error{Kind: KindUserNotFound, Message: "this user does not exist"}
	// ErrUnknownAnswerType indicates a question type outside the known set.
	ErrUnknownAnswerType = &Error{Kind: KindUnknownAnswerType, Message: "type of question does not exist"}
	// ErrEmptyAnswerText indicates a text answer without a usable text.
	ErrEmptyAnswerText = &Error{Kind: KindEmptyAnswerText, Message: "text is empty"}
	// ErrNoOptionsSelected indicates a selectable answer with nothing selected.
	ErrNoOptionsSelected = &Error{Kind: KindNoOptionsSelected, Message: "answer_selected is empty"}
	// ErrTooManyOptionsSelected indicates a single-select answer with several selections.
	ErrTooManyOptionsSelected = &Error{Kind: KindTooManyOptionsSelected, Message: "answer_selected is more than one"}
	// ErrOptionNotOwnedByQuestion indicates a selected option of another question.
	ErrOptionNotOwnedByQuestion = &Error{Kind: KindOptionNotOwnedByQuestion, Message: "answer_selected does not belong to question"}
	// ErrOptionsRequired is returned when a selectable question is given no options.
	ErrOptionsRequired = &Error{Kind: KindOptionsRequired, Message: "question_item is required for this type of question"}
	// ErrOptionsNotAllowed is returned when options are sent for a text question.
	ErrOptionsNotAllowed = &Error{Kind: KindOptionsNotAllowedForType, Message: "question_item is not allowed for this type of question"}
	// ErrImmutableStartDate is returned on an attempt to change a quiz start date.
	ErrImmutableStartDate = &Error{Kind: KindImmutableFieldChanged, Message: "start_date cannot be changed"}
	// ErrOptionNameTooLong is returned for option names longer than MaxNameLength.
	ErrOptionNameTooLong = &Error{Kind: KindOptionNameTooLong, Message: "question_item name is longer than 256 characters"}
	// ErrInvalidDateRange is returned when finish_date would precede start_date.
	ErrInvalidDateRange = &Error{Kind: KindInvalidDateRange, Message: "finish_date cannot be before start_date"}
)
