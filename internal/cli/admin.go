package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"edulearn-cli/internal/adminforms"
	"edulearn-cli/internal/api"
	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/session"
)

// Permission codes checked by the admin gate; the backend issues them on
// the user profile.
const (
	permManageCourses = "manage_courses"
	permManageQuizzes = "manage_quizzes"
)

func adminRequirement(perm string) session.Requirement {
	return session.Requirement{
		Kind:           session.ByPermission,
		Required:       []string{perm},
		RequireAll:     true,
		RedirectOnDeny: true,
		Fallback:       "courses",
	}
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage courses and quizzes",
	}
	course := &cobra.Command{Use: "course", Short: "Course management"}
	course.AddCommand(newAdminCourseCreateCmd(), newAdminCourseUpdateCmd())
	quiz := &cobra.Command{Use: "quiz", Short: "Quiz management"}
	quiz.AddCommand(newAdminQuizCreateCmd(), newAdminQuizUpdateCmd(), newAdminQuizDeleteCmd())
	cmd.AddCommand(course, quiz)
	return cmd
}

func newAdminCourseCreateCmd() *cobra.Command {
	var title, slugValue, description, bannerPath string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, adminRequirement(permManageCourses)) {
				return nil
			}

			form := adminforms.NewCourseForm()
			form.SetTitle(title)
			if slugValue != "" {
				form.SetSlug(slugValue)
			}
			form.Description = description

			return submitCourseForm(cmd, a, form, bannerPath)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "course title")
	cmd.Flags().StringVar(&slugValue, "slug", "", "URL slug (derived from the title when omitted)")
	cmd.Flags().StringVar(&description, "description", "", "course description")
	cmd.Flags().StringVar(&bannerPath, "banner", "", "path to a banner image")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newAdminCourseUpdateCmd() *cobra.Command {
	var title, slugValue, description, bannerPath string
	cmd := &cobra.Command{
		Use:   "update <course-id>",
		Short: "Update a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid course id %q", args[0])
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, adminRequirement(permManageCourses)) {
				return nil
			}

			current, err := a.client.GetCourse(cmd.Context(), courseID)
			if err != nil {
				return describeAPIError(err)
			}

			form := adminforms.EditCourseForm(current.ID, current.Title, current.Slug, current.Description)
			if title != "" {
				form.SetTitle(title)
			}
			if slugValue != "" {
				form.SetSlug(slugValue)
			}
			if cmd.Flags().Changed("description") {
				form.Description = description
			}

			return submitCourseForm(cmd, a, form, bannerPath)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&slugValue, "slug", "", "new slug")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&bannerPath, "banner", "", "path to a replacement banner image")
	return cmd
}

func submitCourseForm(cmd *cobra.Command, a *app, form *adminforms.CourseForm, bannerPath string) error {
	if bannerPath != "" {
		content, err := os.ReadFile(bannerPath)
		if err != nil {
			return err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(bannerPath))
		if err := form.AttachBanner(filepath.Base(bannerPath), mimeType, content); err != nil {
			return err
		}
	}

	if errs := form.Validate(); len(errs) > 0 {
		return errors.New(formatFieldErrors(errs))
	}

	upload := api.CourseUpload{ID: form.ID, Fields: form.Fields()}
	if form.Banner != nil {
		upload.Banner = &api.FileAttachment{
			Field:   "banner",
			Name:    form.Banner.Name,
			Content: form.Banner.Content,
		}
	}

	var (
		course domain.Course
		err    error
	)
	if form.ID == 0 {
		course, err = a.client.CreateCourse(cmd.Context(), upload)
	} else {
		course, err = a.client.UpdateCourse(cmd.Context(), upload)
		a.catalog.Invalidate(form.ID, 0)
	}
	if err != nil {
		return describeAPIError(err)
	}
	a.notifier.Success(fmt.Sprintf("course %d saved (%s)", course.ID, course.Slug))
	return nil
}

func newAdminQuizCreateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quiz from a JSON definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, adminRequirement(permManageQuizzes)) {
				return nil
			}

			form, err := loadQuizForm(file, nil)
			if err != nil {
				return err
			}
			return submitQuizForm(cmd, a, form)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "quiz definition JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAdminQuizUpdateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <quiz-id>",
		Short: "Update a quiz from a JSON definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quiz id %q", args[0])
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, adminRequirement(permManageQuizzes)) {
				return nil
			}

			current, err := a.client.GetQuiz(cmd.Context(), quizID)
			if err != nil {
				return describeAPIError(err)
			}
			form, err := loadQuizForm(file, &current)
			if err != nil {
				return err
			}
			return submitQuizForm(cmd, a, form)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "quiz definition JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAdminQuizDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quiz id %q", args[0])
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, adminRequirement(permManageQuizzes)) {
				return nil
			}
			if !a.notifier.Confirm(fmt.Sprintf("Delete quiz %d? This cannot be undone.", quizID)) {
				return nil
			}

			if err := a.client.DeleteQuiz(cmd.Context(), quizID); err != nil {
				return describeAPIError(err)
			}
			a.catalog.Invalidate(0, quizID)
			a.notifier.Success(fmt.Sprintf("quiz %d deleted", quizID))
			return nil
		},
	}
}

// loadQuizForm parses a quiz definition file into a form. For updates,
// fields absent from the file keep the current server values.
func loadQuizForm(path string, current *domain.Quiz) (*adminforms.QuizForm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var quiz domain.Quiz
	if current != nil {
		quiz = *current
	}
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("parse quiz definition: %w", err)
	}

	if current == nil {
		form := adminforms.NewQuizForm()
		form.Title = quiz.Title
		form.Description = quiz.Description
		form.TimeLimitSeconds = quiz.TimeLimitSeconds
		form.Questions = quiz.Questions
		return form, nil
	}
	quiz.ID = current.ID
	return adminforms.EditQuizForm(quiz), nil
}

func submitQuizForm(cmd *cobra.Command, a *app, form *adminforms.QuizForm) error {
	if errs := form.Validate(); len(errs) > 0 {
		return errors.New(formatFieldErrors(errs))
	}

	upload := api.QuizUpload{Quiz: form.Quiz()}
	var (
		quiz domain.Quiz
		err  error
	)
	if upload.Quiz.ID == 0 {
		quiz, err = a.client.CreateQuiz(cmd.Context(), upload)
	} else {
		quiz, err = a.client.UpdateQuiz(cmd.Context(), upload)
		a.catalog.Invalidate(0, upload.Quiz.ID)
	}
	if err != nil {
		return describeAPIError(err)
	}
	a.notifier.Success(fmt.Sprintf("quiz %d saved", quiz.ID))
	return nil
}

func formatFieldErrors(errs map[string]string) string {
	msg := "validation failed:"
	for field, detail := range errs {
		msg += fmt.Sprintf("\n  %s: %s", field, detail)
	}
	return msg
}
