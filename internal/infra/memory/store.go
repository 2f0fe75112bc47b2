package memory

import (
	"context"
	"sort"
	"sync"

	"survey-quiz-service/internal/domain"
)

// Store is an in-memory implementation of the catalog, answer and report
// repositories. It mirrors the relational constraints of the Postgres store:
// cascading deletes, unique user names and all-or-nothing submissions.
type Store struct {
	mu  sync.RWMutex
	seq map[string]int64

	quizzes   map[int64]domain.Quiz
	questions map[int64]domain.Question
	options   map[int64]domain.QuestionOption
	users     map[int64]domain.User
	userNames map[string]int64
	answers   map[int64]domain.Answer
}

func NewStore() *Store {
	return &Store{
		seq:       make(map[string]int64),
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64]domain.Question),
		options:   make(map[int64]domain.QuestionOption),
		users:     make(map[int64]domain.User),
		userNames: make(map[string]int64),
		answers:   make(map[int64]domain.Answer),
	}
}

func (s *Store) nextIDLocked(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = s.nextIDLocked("quizzes")
	quiz.Questions = nil
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *Store) GetQuiz(_ context.Context, quizID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.quizWithQuestionsLocked(quiz), nil
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		quizzes = append(quizzes, s.quizWithQuestionsLocked(quiz))
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes, nil
}

func (s *Store) UpdateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz.Questions = nil
	s.quizzes[quiz.ID] = quiz
	return s.quizWithQuestionsLocked(quiz), nil
}

func (s *Store) DeleteQuiz(_ context.Context, quizID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	for id, question := range s.questions {
		if question.QuizID == quizID {
			s.deleteQuestionLocked(id)
		}
	}
	delete(s.quizzes, quizID)
	return nil
}

func (s *Store) CreateQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	question.ID = s.nextIDLocked("questions")
	names := question.Options
	question.Options = nil
	s.questions[question.ID] = question
	s.createOptionsLocked(question.ID, names)
	return s.questionWithOptionsLocked(question), nil
}

func (s *Store) GetQuestion(_ context.Context, questionID int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[questionID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return s.questionWithOptionsLocked(question), nil
}

func (s *Store) UpdateQuestion(_ context.Context, question domain.Question, replaceOptions bool) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.questions[question.ID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	stored.Text = question.Text
	stored.Type = question.Type
	s.questions[stored.ID] = stored

	if replaceOptions {
		for id, opt := range s.options {
			if opt.QuestionID == stored.ID {
				s.deleteOptionLocked(id)
			}
		}
		s.createOptionsLocked(stored.ID, question.Options)
	}
	return s.questionWithOptionsLocked(stored), nil
}

func (s *Store) DeleteQuestion(_ context.Context, questionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[questionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.deleteQuestionLocked(questionID)
	return nil
}

func (s *Store) GetOption(_ context.Context, optionID int64) (domain.QuestionOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opt, ok := s.options[optionID]
	if !ok {
		return domain.QuestionOption{}, domain.ErrOptionNotFound
	}
	return opt, nil
}

func (s *Store) UpdateOption(_ context.Context, option domain.QuestionOption) (domain.QuestionOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.options[option.ID]
	if !ok {
		return domain.QuestionOption{}, domain.ErrOptionNotFound
	}
	stored.Name = option.Name
	s.options[stored.ID] = stored
	return stored, nil
}

func (s *Store) DeleteOption(_ context.Context, optionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.options[optionID]; !ok {
		return domain.ErrOptionNotFound
	}
	s.deleteOptionLocked(optionID)
	return nil
}

// SaveAnswers checks every foreign key before touching any state, so a failed
// batch leaves the store unchanged.
func (s *Store) SaveAnswers(_ context.Context, userName string, answers []domain.AnswerSubmission) (domain.SubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, answer := range answers {
		if _, ok := s.questions[answer.QuestionID]; !ok {
			return domain.SubmissionResult{}, domain.ErrQuestionNotFound
		}
		for _, optionID := range answer.SelectedOptionIDs {
			if _, ok := s.options[optionID]; !ok {
				return domain.SubmissionResult{}, domain.ErrOptionNotFound
			}
		}
	}

	userID, ok := s.userNames[userName]
	if !ok {
		userID = s.nextIDLocked("users")
		s.users[userID] = domain.User{ID: userID, Name: userName}
		s.userNames[userName] = userID
	}

	created := make([]domain.Answer, 0, len(answers))
	for _, answer := range answers {
		stored := domain.Answer{
			ID:                s.nextIDLocked("answers"),
			UserID:            userID,
			QuestionID:        answer.QuestionID,
			Text:              copyText(answer.Text),
			SelectedOptionIDs: append([]int64{}, answer.SelectedOptionIDs...),
		}
		s.answers[stored.ID] = stored
		created = append(created, stored)
	}
	return domain.SubmissionResult{User: s.users[userID], Answers: created}, nil
}

func (s *Store) FindUserByName(_ context.Context, name string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userNames[name]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

// StreamUserAnswers snapshots the user's answers ordered by quiz id, then
// answer id, and feeds them to fn outside the lock.
func (s *Store) StreamUserAnswers(ctx context.Context, userID int64, fn func(domain.AnswerRecord) error) error {
	s.mu.RLock()
	records := make([]domain.AnswerRecord, 0)
	for _, answer := range s.answers {
		if answer.UserID != userID {
			continue
		}
		question := s.questions[answer.QuestionID]
		quiz := s.quizzes[question.QuizID]
		selected := make([]string, 0, len(answer.SelectedOptionIDs))
		for _, optionID := range answer.SelectedOptionIDs {
			if opt, ok := s.options[optionID]; ok {
				selected = append(selected, opt.Name)
			}
		}
		records = append(records, domain.AnswerRecord{
			AnswerID:        answer.ID,
			QuizID:          quiz.ID,
			QuizName:        quiz.Name,
			QuestionID:      question.ID,
			QuestionText:    question.Text,
			Text:            copyText(answer.Text),
			SelectedOptions: selected,
		})
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].QuizID != records[j].QuizID {
			return records[i].QuizID < records[j].QuizID
		}
		return records[i].AnswerID < records[j].AnswerID
	})

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) quizWithQuestionsLocked(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, 0)
	for _, question := range s.questions {
		if question.QuizID == quiz.ID {
			questions = append(questions, s.questionWithOptionsLocked(question))
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	quiz.Questions = questions
	return quiz
}

func (s *Store) questionWithOptionsLocked(question domain.Question) domain.Question {
	options := make([]domain.QuestionOption, 0)
	for _, opt := range s.options {
		if opt.QuestionID == question.ID {
			options = append(options, opt)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	question.Options = options
	return question
}

func (s *Store) createOptionsLocked(questionID int64, options []domain.QuestionOption) {
	for _, opt := range options {
		id := s.nextIDLocked("question_options")
		s.options[id] = domain.QuestionOption{ID: id, QuestionID: questionID, Name: opt.Name}
	}
}

func (s *Store) deleteQuestionLocked(questionID int64) {
	for id, opt := range s.options {
		if opt.QuestionID == questionID {
			s.deleteOptionLocked(id)
		}
	}
	for id, answer := range s.answers {
		if answer.QuestionID == questionID {
			delete(s.answers, id)
		}
	}
	delete(s.questions, questionID)
}

func (s *Store) deleteOptionLocked(optionID int64) {
	for id, answer := range s.answers {
		kept := answer.SelectedOptionIDs[:0:0]
		for _, selected := range answer.SelectedOptionIDs {
			if selected != optionID {
				kept = append(kept, selected)
			}
		}
		if len(kept) != len(answer.SelectedOptionIDs) {
			answer.SelectedOptionIDs = kept
			s.answers[id] = answer
		}
	}
	delete(s.options, optionID)
}

func copyText(text *string) *string {
	if text == nil {
		return nil
	}
	v := *text
	return &v
}
