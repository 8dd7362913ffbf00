package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/quiztake"
	"edulearn-cli/internal/review"
	"edulearn-cli/internal/session"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take or inspect quizzes",
	}
	cmd.AddCommand(newQuizListCmd(), newQuizTakeCmd(), newQuizShowCmd())
	return cmd
}

func newQuizListCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			quizzes, total, err := a.client.ListQuizzes(cmd.Context(), page, pageSize)
			if err != nil {
				return describeAPIError(err)
			}

			out := cmd.OutOrStdout()
			for _, quiz := range quizzes {
				limit := "untimed"
				if quiz.TimeLimitSeconds > 0 {
					limit = formatSeconds(quiz.TimeLimitSeconds)
				}
				fmt.Fprintf(out, "%6d  %-40s  %d questions, %s\n", quiz.ID, quiz.Title, len(quiz.Questions), limit)
			}
			fmt.Fprintf(out, "%d of %d quizzes\n", len(quizzes), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	return cmd
}

func newQuizTakeCmd() *cobra.Command {
	var lessonID int64
	cmd := &cobra.Command{
		Use:   "take <quiz-id>",
		Short: "Start or resume a quiz attempt",
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

			if !a.requireAuth(cmd, session.RequireLogin()) {
				return nil
			}
			return runQuizSession(cmd, a, quizID, lessonID)
		},
	}
	cmd.Flags().Int64Var(&lessonID, "lesson", 0, "lesson the quiz belongs to")
	return cmd
}

func newQuizShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <quiz-id>",
		Short: "Print a quiz's questions without starting an attempt",
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

			quiz, err := a.catalog.Quiz(cmd.Context(), quizID)
			if err != nil {
				return describeAPIError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d questions", quiz.Title, len(quiz.Questions))
			if quiz.TimeLimitSeconds > 0 {
				fmt.Fprintf(out, ", %s", formatSeconds(quiz.TimeLimitSeconds))
			}
			fmt.Fprintln(out, ")")
			for i, q := range quiz.Questions {
				fmt.Fprintf(out, "%2d. %s [%.1f pts]\n", i+1, q.Content, q.Points)
			}
			return nil
		},
	}
}

// runQuizSession is the interactive attempt loop: it drives the session
// controller from stdin while the controller's own tick loop counts the
// timer down in the background.
func runQuizSession(cmd *cobra.Command, a *app, quizID, lessonID int64) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	quiz, err := a.catalog.Quiz(ctx, quizID)
	if err != nil {
		return describeAPIError(err)
	}

	ctrl := quiztake.New(a.client, quiztake.NewTimerStore(a.store), a.notifier)
	defer ctrl.Close()

	if err := ctrl.Begin(ctx, quiz, lessonID); err != nil {
		return describeAPIError(err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go ctrl.Run(runCtx)

	sub := ctrl.Submission()
	fmt.Fprintf(out, "\n%s: %d questions", sub.Snapshot.Title, len(sub.Snapshot.Questions))
	if remaining, timed := ctrl.Remaining(); timed {
		fmt.Fprintf(out, ", %s remaining", formatSeconds(remaining))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, `commands: show <n> | answer <n> <option> | status | submit | quit`)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		if ctrl.State() == quiztake.StateCompleted {
			break
		}

		fmt.Fprint(out, "quiz> ")
		if !in.Scan() {
			return in.Err()
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q":
			// Leaving keeps the submission in progress for a later resume.
			return nil
		case "status":
			printQuizStatus(out, ctrl)
		case "show":
			n, ok := parseQuestionIndex(out, fields, sub.Snapshot)
			if !ok {
				continue
			}
			printQuestion(out, n, sub.Snapshot.Questions[n-1], ctrl)
		case "answer":
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: answer <question-number> <option-number>")
				continue
			}
			n, ok := parseQuestionIndex(out, fields, sub.Snapshot)
			if !ok {
				continue
			}
			question := sub.Snapshot.Questions[n-1]
			optIdx, err := strconv.Atoi(fields[2])
			if err != nil || optIdx < 1 || optIdx > len(question.Options) {
				fmt.Fprintf(out, "option must be 1..%d\n", len(question.Options))
				continue
			}
			if err := ctrl.SelectOption(ctx, question.ID, question.Options[optIdx-1].ID); err != nil {
				continue
			}
			printQuestion(out, n, question, ctrl)
		case "submit":
			result, err := ctrl.Submit(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrSubmitInFlight) {
					fmt.Fprintln(out, "a submission is already in flight")
				}
				continue
			}
			if ctrl.State() != quiztake.StateCompleted {
				// Confirmation declined; the attempt continues.
				continue
			}
			printReview(out, review.Build(result))
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q; try: show, answer, status, submit, quit\n", fields[0])
		}
	}

	if result, ok := ctrl.Result(); ok {
		printReview(out, review.Build(result))
	}
	return nil
}

func parseQuestionIndex(out io.Writer, fields []string, snap domain.QuizSnapshot) (int, bool) {
	if len(fields) < 2 {
		fmt.Fprintln(out, "a question number is required")
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(snap.Questions) {
		fmt.Fprintf(out, "question must be 1..%d\n", len(snap.Questions))
		return 0, false
	}
	return n, true
}

func printQuizStatus(out io.Writer, ctrl *quiztake.Controller) {
	sub := ctrl.Submission()
	answered := len(sub.Snapshot.Questions) - ctrl.UnansweredCount()
	fmt.Fprintf(out, "%d/%d answered", answered, len(sub.Snapshot.Questions))
	if remaining, timed := ctrl.Remaining(); timed {
		fmt.Fprintf(out, ", %s remaining", formatSeconds(remaining))
	}
	fmt.Fprintln(out)
}

func printQuestion(out io.Writer, n int, q domain.Question, ctrl *quiztake.Controller) {
	selected := make(map[int64]bool)
	for _, id := range ctrl.Answer(q.ID) {
		selected[id] = true
	}

	kind := "choose one"
	if q.Type == domain.MultiChoice {
		kind = "choose all that apply"
	}
	fmt.Fprintf(out, "\n%d. %s (%s, %.1f pts)\n", n, q.Content, kind, q.Points)
	for i, opt := range q.Options {
		marker := " "
		if selected[opt.ID] {
			marker = "x"
		}
		fmt.Fprintf(out, "  [%s] %d) %s\n", marker, i+1, opt.Text)
	}
}

func printReview(out io.Writer, r review.Result) {
	fmt.Fprintf(out, "\n%s: %.1f / %.1f (%d%%)\n", r.Title, r.TotalScore, r.MaxScore, r.Percentage)
	for i, qr := range r.Questions {
		verdict := "incorrect"
		if qr.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(out, "%2d. %-9s %.1f pts  %s\n", i+1, verdict, qr.PointsAwarded, qr.Question.Content)
	}
}

func newSubmissionsCmd() *cobra.Command {
	var quizID int64
	var status string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List your quiz submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.requireAuth(cmd, session.RequireLogin()) {
				return nil
			}

			subs, total, err := a.client.ListSubmissions(cmd.Context(), quizID, domain.SubmissionStatus(status), page, pageSize)
			if err != nil {
				return describeAPIError(err)
			}

			out := cmd.OutOrStdout()
			for _, sub := range subs {
				line := fmt.Sprintf("%6d  %-30s  %s", sub.ID, sub.Snapshot.Title, sub.Status)
				if sub.Status == domain.SubmissionSubmitted {
					line += fmt.Sprintf("  %.1f/%.1f", sub.TotalScore, sub.Snapshot.TotalPoints())
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "%d of %d submissions\n", len(subs), total)
			return nil
		},
	}
	cmd.Flags().Int64Var(&quizID, "quiz", 0, "filter by quiz id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (in_progress, submitted)")
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	return cmd
}

func formatSeconds(total int) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}
