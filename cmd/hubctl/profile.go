package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/cloudinary"
	"github.com/magabrotheeeer/social-hub/internal/profile"
)

// consoleNotifier печатает уведомления в вывод команды.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Success(msg string) { fmt.Fprintln(n.out, "✔ "+msg) }
func (n consoleNotifier) Error(msg string)   { fmt.Fprintln(n.out, "✘ "+msg) }

// tickPrinter печатает оставшиеся секунды перед каждым ожиданием. Ноль
// печатается после последнего ожидания, до повторного запроса.
type tickPrinter struct {
	view *profile.View
	out  io.Writer
}

func (p tickPrinter) After(d time.Duration) <-chan time.Time {
	left := p.view.Snapshot().SecondsLeft
	p.print(left)
	if left > 1 {
		return profile.RealClock.After(d)
	}
	fired := make(chan time.Time, 1)
	go func() {
		t := <-profile.RealClock.After(d)
		p.print(0)
		fired <- t
	}()
	return fired
}

func (p tickPrinter) print(left int) {
	fmt.Fprintf(p.out, "Request limit exceeded, trying again in %d seconds\n", left)
}

func newProfileView(cmd *cobra.Command, opts *globalOptions) (*profile.View, error) {
	c, cfg, err := opts.newClient(true)
	if err != nil {
		return nil, err
	}
	var uploader profile.Uploader
	if up, upErr := cloudinary.New("", cfg.CloudinaryCloud, cfg.UploadPreset); upErr == nil {
		uploader = up
	} else {
		// без настроек Cloudinary профиль работает, отказывает только загрузка аватара
		uploader = uploaderUnavailable{err: upErr}
	}
	return profile.NewView(c, uploader, consoleNotifier{out: cmd.ErrOrStderr()}, opts.logger(cmd)), nil
}

type uploaderUnavailable struct {
	err error
}

func (u uploaderUnavailable) Upload(context.Context, string, io.Reader) (string, error) {
	return "", u.err
}

// loadProfile загружает профиль, выжидая ограничение частоты запросов.
func loadProfile(ctx context.Context, cmd *cobra.Command, view *profile.View) error {
	view.Load(ctx)
	if view.Snapshot().State == profile.StateRateLimited {
		if err := view.Run(ctx, tickPrinter{view: view, out: cmd.ErrOrStderr()}); err != nil {
			return err
		}
	}
	s := view.Snapshot()
	if s.State != profile.StateReady {
		return errors.New(s.Error)
	}
	return nil
}

func newProfileCommand(opts *globalOptions) *cobra.Command {
	p := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := newProfileView(cmd, opts)
			if err != nil {
				return err
			}
			if err := loadProfile(cmd.Context(), cmd, view); err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), view.Snapshot())
			return nil
		},
	}

	var name, email, password, avatar string
	update := &cobra.Command{
		Use:     "update",
		Short:   "Update your profile",
		Example: `  hubctl profile update --name "Ann Lee" --avatar ./me.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := newProfileView(cmd, opts)
			if err != nil {
				return err
			}
			if err := loadProfile(cmd.Context(), cmd, view); err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				view.SetName(name)
			}
			if cmd.Flags().Changed("email") {
				view.SetEmail(email)
			}
			view.SetPassword(password)
			if avatar != "" {
				f, err := os.Open(avatar)
				if err != nil {
					return err
				}
				defer f.Close()
				view.SelectAvatar(&profile.AvatarFile{Name: filepath.Base(avatar), Content: f})
			}
			if err := view.Submit(cmd.Context()); err != nil {
				return errors.New(view.Snapshot().Error)
			}
			printProfile(cmd.OutOrStdout(), view.Snapshot())
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().StringVar(&email, "email", "", "new e-mail")
	update.Flags().StringVar(&password, "password", "", "new password, empty keeps the current one")
	update.Flags().StringVar(&avatar, "avatar", "", "image file to upload as the new avatar")

	p.AddCommand(show, update)
	return p
}

func newOrganizerCommand(opts *globalOptions) *cobra.Command {
	o := &cobra.Command{
		Use:   "organizer",
		Short: "Organizer role requests",
	}
	request := &cobra.Command{
		Use:   "request",
		Short: "Apply (or re-apply after rejection) for the organizer role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := newProfileView(cmd, opts)
			if err != nil {
				return err
			}
			if err := loadProfile(cmd.Context(), cmd, view); err != nil {
				return err
			}
			s := view.Snapshot()
			if btn := profile.OrganizerButton(s.Role, s.OrganizerStatus); !btn.Enabled() {
				return fmt.Errorf("cannot request organizer role: role %s, status %q", s.Role, s.OrganizerStatus)
			}
			if err := view.RequestOrganizer(cmd.Context()); err != nil {
				return errors.New(view.Snapshot().Error)
			}
			printProfile(cmd.OutOrStdout(), view.Snapshot())
			return nil
		},
	}
	o.AddCommand(request)
	return o
}

func printProfile(w io.Writer, s profile.Snapshot) {
	fmt.Fprintf(w, "Name:   %s\n", s.Form.Name)
	fmt.Fprintf(w, "Email:  %s\n", s.Form.Email)
	fmt.Fprintf(w, "Avatar: %s\n", s.AvatarURL)
	fmt.Fprintf(w, "Role:   %s\n", s.Role)
	if btn := profile.OrganizerButton(s.Role, s.OrganizerStatus); btn != profile.ButtonNone {
		fmt.Fprintf(w, "Organizer: %s\n", btn)
	}
}
