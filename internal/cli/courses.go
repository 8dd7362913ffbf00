package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/navigator"
)

func newCoursesCmd() *cobra.Command {
	var search string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List available courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			courses, total, err := a.client.ListCourses(cmd.Context(), search, page, pageSize)
			if err != nil {
				return describeAPIError(err)
			}

			out := cmd.OutOrStdout()
			for _, course := range courses {
				fmt.Fprintf(out, "%6d  %-40s  %d lessons\n", course.ID, course.Title, len(course.Lessons))
			}
			fmt.Fprintf(out, "%d of %d courses\n", len(courses), total)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter courses by title")
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List course languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			languages, err := a.client.ListLanguages(cmd.Context())
			if err != nil {
				return describeAPIError(err)
			}
			out := cmd.OutOrStdout()
			for _, lang := range languages {
				fmt.Fprintf(out, "%6d  %-5s  %s\n", lang.ID, lang.Code, lang.Name)
			}
			return nil
		},
	}
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List course tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			tags, err := a.client.ListTags(cmd.Context())
			if err != nil {
				return describeAPIError(err)
			}
			out := cmd.OutOrStdout()
			for _, tag := range tags {
				fmt.Fprintf(out, "%6d  %-20s  %s\n", tag.ID, tag.Slug, tag.Name)
			}
			return nil
		},
	}
}

func newCourseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course <id>",
		Short: "Browse a course's lessons interactively",
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

			course, err := a.catalog.Course(cmd.Context(), courseID)
			if err != nil {
				return describeAPIError(err)
			}
			return runCourseLoop(cmd, a, course)
		},
	}
}

// runCourseLoop is the interactive tree view for one course. The
// navigator keeps the expansion and pane state; every command is a
// single line read from stdin.
func runCourseLoop(cmd *cobra.Command, a *app, course domain.Course) error {
	nav := navigator.New(course)
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	renderCourse(out, nav)
	fmt.Fprintln(out, `commands: lesson <id> | resource <id> | quiz <id> | close | help | quit`)

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, `commands: lesson <id> | resource <id> | quiz <id> | close | help | quit`)
		case "close":
			nav.ClearPane()
			renderCourse(out, nav)
		case "lesson":
			id, ok := parseID(out, fields)
			if !ok {
				continue
			}
			if _, found := nav.Lesson(id); !found {
				a.notifier.Error(fmt.Sprintf("no lesson %d in this course", id))
				continue
			}
			nav.ToggleLesson(id)
			renderCourse(out, nav)
		case "resource":
			id, ok := parseID(out, fields)
			if !ok {
				continue
			}
			resource, err := a.client.GetResource(cmd.Context(), id)
			if err != nil {
				a.notifier.Error(describeAPIError(err).Error())
				continue
			}
			nav.SelectResource(id)
			renderCourse(out, nav)
			renderResource(out, resource)
		case "quiz":
			id, ok := parseID(out, fields)
			if !ok {
				continue
			}
			nav.StartQuiz(id)
			if err := runQuizSession(cmd, a, id, lessonForQuiz(nav.Course(), id)); err != nil {
				a.notifier.Error(err.Error())
			}
			nav.ShowQuizResult(id)
			renderCourse(out, nav)
		default:
			fmt.Fprintf(out, "unknown command %q; try help\n", fields[0])
		}
	}
}

func parseID(out io.Writer, fields []string) (int64, bool) {
	if len(fields) < 2 {
		fmt.Fprintln(out, "an id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "invalid id %q\n", fields[1])
		return 0, false
	}
	return id, true
}

// lessonForQuiz finds the lesson a quiz is attached to; zero when the
// quiz is not part of this course's tree.
func lessonForQuiz(course domain.Course, quizID int64) int64 {
	for _, lesson := range course.Lessons {
		for _, ref := range lesson.Quizzes {
			if ref.ID == quizID {
				return lesson.ID
			}
		}
	}
	return 0
}

func renderCourse(out io.Writer, nav *navigator.Navigator) {
	course := nav.Course()
	fmt.Fprintf(out, "\n%s\n", course.Title)
	if course.Description != "" {
		fmt.Fprintln(out, course.Description)
	}
	for _, lesson := range course.Lessons {
		marker := "+"
		if nav.IsExpanded(lesson.ID) {
			marker = "-"
		}
		fmt.Fprintf(out, " %s [%d] %s\n", marker, lesson.ID, lesson.Title)
		if !nav.IsExpanded(lesson.ID) {
			continue
		}
		for _, resource := range lesson.Resources {
			fmt.Fprintf(out, "     resource %d: %s\n", resource.ID, resource.Title)
		}
		for _, ref := range lesson.Quizzes {
			limit := "untimed"
			if ref.TimeLimitSeconds > 0 {
				limit = fmt.Sprintf("%ds", ref.TimeLimitSeconds)
			}
			fmt.Fprintf(out, "     quiz %d: %s (%s)\n", ref.ID, ref.Title, limit)
		}
	}
}

func renderResource(out io.Writer, resource domain.Resource) {
	fmt.Fprintf(out, "\n%s\n", resource.Title)
	if resource.Kind != "" {
		fmt.Fprintf(out, "kind: %s\n", resource.Kind)
	}
	if resource.URL != "" {
		fmt.Fprintln(out, resource.URL)
	}
}
