package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	"animal-safety-hub/pkg/database"
	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/pkg/response"
	"animal-safety-hub/services/auth-service/models"
	"animal-safety-hub/services/auth-service/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var db *gorm.DB

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

var validRoles = map[string]bool{
	"admin":     true,
	"moderator": true,
}

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_PORT"),
	)
	if os.Getenv("POSTGRES_HOST") == "" {
		dsn = "host=localhost user=admin password=password dbname=auth_db port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to database: %v", err)
	}

	log.Println("[INFO] Running auto migration")
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("[ERROR] Migration failed: %v", err)
	}

	middleware.RegisterMetrics()

	http.HandleFunc("/api/auth/register", wrap(registerHandler))
	http.HandleFunc("/api/auth/login", wrap(loginHandler))
	http.HandleFunc("/api/auth/me", wrap(middleware.AuthMiddleware(http.HandlerFunc(meHandler)).ServeHTTP))
	http.HandleFunc("/health", healthHandler)
	http.Handle("/metrics", middleware.GetMetricsHandler())

	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = "8081"
	}
	log.Printf("[INFO] Auth Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func wrap(h http.HandlerFunc) http.HandlerFunc {
	return middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(h),
		),
	).ServeHTTP
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Team     string `json:"team"`
		Phone    string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		response.Error(w, http.StatusBadRequest, "Email, Password, and Name are required")
		return
	}
	if !isValidEmail(input.Email) {
		response.Error(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if valid, msg := isValidPassword(input.Password); !valid {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}
	if len(strings.TrimSpace(input.Name)) < 3 {
		response.Error(w, http.StatusBadRequest, "Name must be at least 3 characters")
		return
	}

	role := input.Role
	if role == "" {
		role = "moderator"
	}
	if !validRoles[role] {
		response.Error(w, http.StatusBadRequest, "Role must be admin or moderator")
		return
	}

	var existingUser models.User
	if result := db.Where("email = ?", input.Email).First(&existingUser); result.Error == nil {
		log.Printf("[WARN] Registration attempt with existing email")
		response.Error(w, http.StatusConflict, "Email already registered")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to process registration")
		return
	}

	newUser := models.User{
		Email:    input.Email,
		Password: hashedPassword,
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
		Team:     input.Team,
		Phone:    input.Phone,
	}
	if newUser.Team == "" {
		newUser.Team = "general"
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("[ERROR] Failed to save user to database: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to save user")
		return
	}

	log.Printf("[OK] User registered - ID: %s", newUser.ID)

	token, err := utils.GenerateJWT(newUser.ID, newUser.Email, newUser.Name, newUser.Role, newUser.Team)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for user id: %s", newUser.ID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"id":    newUser.ID,
		"token": token,
		"name":  newUser.Name,
		"role":  newUser.Role,
		"team":  newUser.Team,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid login request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if input.Email == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and Password are required")
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		log.Printf("[WARN] Failed login attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		log.Printf("[WARN] Invalid password attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role, user.Team)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for user id: %s", user.ID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Printf("[OK] User logged in - ID: %s, Role: %s, Team: %s", user.ID, user.Role, user.Team)

	response.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"id":    user.ID,
		"token": token,
		"name":  user.Name,
		"role":  user.Role,
		"team":  user.Team,
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}

	response.Success(w, http.StatusOK, "", user)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "UP",
		"service": "auth-service",
	})
}
