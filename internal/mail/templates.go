package mail

import "fmt"

const (
	otpSubject     = "Your Verification Code"
	welcomeSubject = "Welcome to SlimMom!"
)

func otpBody(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; text-align: center;">Email Verification</h1>
  <div style="background-color: #f8f8f8; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <p style="font-size: 16px;">Your verification code is:</p>
    <h2 style="text-align: center; color: #4CAF50; letter-spacing: 5px; padding: 10px;">%s</h2>
    <p style="color: #666; font-size: 14px;">This code will expire in 10 minutes.</p>
  </div>
  <p style="color: #999; font-size: 12px; text-align: center;">If you didn't request this code, please ignore this email.</p>
</div>`, code)
}

func welcomeBody(name string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #FC842D; text-align: center;">Welcome, %s!</h1>
  <p style="font-size: 16px; text-align: center;">We're excited to have you on board. Start your health journey now!</p>
  <p style="color: #999; font-size: 12px; text-align: center;">Thank you for joining SlimMom!</p>
</div>`, name)
}
