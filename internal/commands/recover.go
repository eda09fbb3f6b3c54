package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var RecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a forgotten password",
	Long: `Password recovery runs in three steps:

  planhub recover send <email>          Mail a one-time code
  planhub recover verify <email> <otp>  Exchange the code for a reset token
  planhub recover reset                 Set a new password`,
}

var recoverSendCmd = &cobra.Command{
	Use:   "send <email>",
	Short: "Mail a one-time recovery code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.SendOTP(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("📧 Recovery code sent to %s\n", args[0])
		fmt.Println("Next: planhub recover verify " + args[0] + " <otp>")
		return nil
	},
}

var recoverVerifyCmd = &cobra.Command{
	Use:   "verify <email> <otp>",
	Short: "Verify the recovery code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			return err
		}
		if _, err := mgr.VerifyOTP(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("✅ Code verified, reset token stored.")
		fmt.Println("Next: planhub recover reset")
		return nil
	},
}

var recoverResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password using the stored reset token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			return err
		}

		password, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Repeat password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := mgr.ResetPassword(cmd.Context(), password); err != nil {
			return err
		}
		fmt.Println("✅ Password updated. Log in with: planhub login")
		return nil
	},
}

func init() {
	RecoverCmd.AddCommand(recoverSendCmd)
	RecoverCmd.AddCommand(recoverVerifyCmd)
	RecoverCmd.AddCommand(recoverResetCmd)
}
