package core

import "github.com/gradekit/gradekit/schema"

// defaultMilestones is the built-in catalog for the PHP banking-app
// assignment. Milestone ids reflect grading order in the course plan,
// which is why the security items 21 and 22 sit out of sequence.
var defaultMilestones = []schema.MilestoneDefinition{
	{
		ID:     1,
		Desc:   "Initial project setup with file structure",
		Files:  []string{FolderSetSentinel},
		Weight: 2,
		Criteria: []string{
			"Proper folder structure (includes/, assets/, sql/, admin/)",
			"Basic files created",
			"Clear organization",
		},
		Folders: []string{"includes", "assets", "sql", "admin", "css", "js", "images"},
	},
	{
		ID:     2,
		Desc:   "Added registration form",
		Files:  []string{"register.php"},
		Weight: 3,
		Criteria: []string{
			"HTML form with required fields (name, email, PIN)",
			"Form structure is valid",
			"Basic styling or layout",
		},
		ProbeFiles: []string{"register.php", "signup.php"},
		KeywordGrps: [][]string{
			{"form", "<form"},
			{"input", "text", "email"},
		},
	},
	{
		ID:     3,
		Desc:   "Created database schema and users table",
		Files:  []string{"sql/schema.sql"},
		Weight: 4,
		Criteria: []string{
			"Users table with proper columns (id, name, email, pin, balance)",
			"Appropriate data types",
			"Primary key defined",
			"Default balance set",
		},
		ProbeFiles: []string{"sql/schema.sql", "schema.sql", "database.sql", "db.sql"},
		KeywordGrps: [][]string{
			{"CREATE TABLE", "CREATE"},
			{"users", "user"},
		},
	},
	{
		ID:     4,
		Desc:   "User registration saved into DB",
		Files:  []string{"register.php", "includes/db.php"},
		Weight: 4,
		Criteria: []string{
			"Database connection established",
			"INSERT query to save user",
			"PIN is hashed (password_hash or similar)",
			"Basic error handling",
		},
		ProbeFiles: []string{"register.php", "signup.php"},
		KeywordGrps: [][]string{
			{"INSERT", "insert into"},
			{"password_hash", "hash", "md5", "sha"},
		},
	},
	{
		ID:     5,
		Desc:   "Login with session and failed login handling",
		Files:  []string{"login.php", "includes/auth.php"},
		Weight: 6,
		Criteria: []string{
			"Login form with email and PIN",
			"PIN verification (password_verify or similar)",
			"Session started and user ID stored",
			"Failed login message displayed",
			"Redirect to dashboard on success",
		},
		ProbeFiles: []string{"login.php", "signin.php"},
		KeywordGrps: [][]string{
			{"session_start", "session"},
			{"password_verify", "verify", "=="},
			{"$_SESSION", "session"},
		},
	},
	{
		ID:     6,
		Desc:   "Created dashboard page with balance",
		Files:  []string{"dashboard.php"},
		Weight: 4,
		Criteria: []string{
			"Session check to protect page",
			"User data fetched from database",
			"Balance displayed",
			"Basic navigation or menu",
		},
		ProbeFiles: []string{"dashboard.php", "home.php", "index.php"},
		KeywordGrps: [][]string{
			{"SELECT", "select"},
			{"balance", "amount"},
			{"$_SESSION", "session"},
		},
	},
	{
		ID:     7,
		Desc:   "Added logout functionality",
		Files:  []string{"logout.php"},
		Weight: 2,
		Criteria: []string{
			"Session destroyed (session_destroy)",
			"User redirected to login page",
			"Works correctly",
		},
		ProbeFiles: []string{"logout.php", "signout.php"},
		KeywordGrps: [][]string{
			{"session_destroy", "session_unset", "unset", "destroy"},
		},
	},
	{
		ID:     8,
		Desc:   "Added validation and PIN security",
		Files:  []string{"helpers.php", "register.php", "login.php"},
		Weight: 8,
		Criteria: []string{
			"Input validation functions created",
			"Email format validation",
			"PIN length/format requirements enforced",
			"Sanitization of inputs (htmlspecialchars, etc.)",
			"Validation applied in register and login",
		},
		ProbeFiles: []string{"helpers.php", "register.php", "functions.php", "validation.php"},
		KeywordGrps: [][]string{
			{"validate", "check", "verify"},
			{"filter", "sanitize", "clean"},
			{"htmlspecialchars", "strip_tags", "escape"},
		},
	},
	{
		ID:     9,
		Desc:   "Dashboard enhancements with recent activities",
		Files:  []string{"dashboard.php"},
		Weight: 3,
		Criteria: []string{
			"Recent transactions displayed (5 most recent)",
			"Query to fetch recent activities from transactions table",
			"Formatted display (table or list)",
			"Shows transaction type, amount, and timestamp",
			"Activities properly logged for display",
		},
		ProbeFiles: []string{"dashboard.php", "home.php"},
		KeywordGrps: [][]string{
			{"transaction", "history"},
			{"ORDER BY", "order"},
			{"LIMIT", "limit"},
		},
	},
	{
		ID:     10,
		Desc:   "Added combined transaction page (deposit & withdraw)",
		Files:  []string{"transaction.php", "helpers.php", "auth.php"},
		Weight: 8,
		Criteria: []string{
			"Form with deposit and withdraw options",
			"Amount validation (positive, numeric)",
			"Balance updated in database (UPDATE query)",
			"Insufficient funds check for withdrawal",
			"Transaction recorded in transactions table",
			"Success/error messages shown",
		},
		ProbeFiles: []string{"transaction.php", "transactions.php"},
		KeywordGrps: [][]string{
			{"deposit", "withdraw"},
			{"UPDATE", "update"},
			{"balance", "amount"},
		},
	},
	{
		ID:     11,
		Desc:   "Atomic Transactions & Enhanced Logging",
		Files:  []string{"transaction.php", "sql/schema.sql"},
		Weight: 8,
		Criteria: []string{
			"Transactions table created in schema",
			"BEGIN TRANSACTION used",
			"COMMIT on success, ROLLBACK on failure",
			"Transaction log includes user_id, type, amount, timestamp",
			"Proper error handling",
		},
		ProbeFiles: []string{"transaction.php", "transactions.php"},
		KeywordGrps: [][]string{
			{"BEGIN", "START TRANSACTION", "begin"},
			{"COMMIT", "commit"},
			{"ROLLBACK", "rollback"},
		},
	},
	{
		ID:     12,
		Desc:   "Implement User-to-User Transfers",
		Files:  []string{"transfer.php", "transaction.php", "helpers.php"},
		Weight: 6,
		Criteria: []string{
			"Transfer form with recipient selection/input",
			"Sender balance decreased",
			"Recipient balance increased",
			"Both updates in single transaction (atomic)",
			"Validation: sufficient funds, valid recipient",
			"Both transactions logged",
		},
		ProbeFiles: []string{"transfer.php", "send.php"},
		KeywordGrps: [][]string{
			{"transfer", "send"},
			{"UPDATE", "update"},
			{"balance", "amount"},
		},
	},
	{
		ID:     13,
		Desc:   "Advanced Transaction History with Filtering & Pagination",
		Files:  []string{"history.php", "helpers.php"},
		Weight: 7,
		Criteria: []string{
			"Transaction history page created",
			"Filter by type (deposit/withdraw/transfer)",
			"Filter by date range",
			"Pagination implemented (LIMIT, OFFSET)",
			"Navigation between pages works",
		},
		ProbeFiles: []string{"history.php", "transactions.php"},
		KeywordGrps: [][]string{
			{"WHERE", "where"},
			{"LIMIT", "limit"},
			{"OFFSET", "offset", "page"},
		},
	},
	{
		ID:     14,
		Desc:   "Refactor Transactions with AJAX",
		Files:  []string{"dashboard.php", "assets/js/app.js", "api/process_transaction.php"},
		Weight: 8,
		Criteria: []string{
			"JavaScript AJAX code written",
			"API endpoint created (process_transaction.php)",
			"JSON response from API",
			"Page updates without refresh",
			"Error handling in JavaScript",
		},
		ProbeFiles: []string{"app.js", "main.js", "script.js", "process_transaction.php", "api"},
		KeywordGrps: [][]string{
			{"fetch", "XMLHttpRequest", "ajax", "$.ajax"},
			{"json_encode", "json"},
		},
	},
	{
		ID:     15,
		Desc:   "Develop Admin Dashboard with User Management",
		Files:  []string{"admin/index.php", "admin/users.php", "admin/auth_admin.php", "includes/auth.php"},
		Weight: 5,
		Criteria: []string{
			"Admin authentication mechanism",
			"Admin dashboard page",
			"List all users",
			"Admin can view user details",
			"Basic admin role check",
		},
		ProbeFiles: []string{"admin/index.php", "admin/users.php", "admin/dashboard.php", "admin"},
		KeywordGrps: [][]string{
			{"admin", "role"},
			{"SELECT", "select"},
			{"users", "user"},
		},
	},
	{
		ID:     16,
		Desc:   "Add activity logging schema and helper",
		Files:  []string{"sql/schema.sql", "includes/helpers.php"},
		Weight: 2,
		Criteria: []string{
			"Activity_log table created with proper structure",
			"Columns: id, user_id, activity_type, details, ip_address, created_at",
			"Foreign key relationship to users table",
			"Helper function log_activity() to record events",
			"Function captures user_id, action, IP address",
		},
		ProbeFiles: []string{"schema.sql", "helpers.php", "functions.php"},
		KeywordGrps: [][]string{
			{"activity_log", "log", "audit"},
			{"CREATE TABLE", "CREATE"},
		},
	},
	{
		ID:     17,
		Desc:   "Integrate activity logging for core actions",
		Files:  []string{"login.php", "logout.php"},
		Weight: 3,
		Criteria: []string{
			"Login action logged",
			"Logout action logged",
			"IP address captured",
			"Timestamp recorded",
		},
		ProbeFiles: []string{"login.php", "logout.php"},
		KeywordGrps: [][]string{
			{"log_activity", "log", "insert"},
			{"INSERT", "insert"},
		},
	},
	{
		ID:     18,
		Desc:   "Implement PIN change functionality",
		Files:  []string{"pin_change.php", "dashboard.php", "includes/helpers.php"},
		Weight: 2,
		Criteria: []string{
			"PIN change form created",
			"Old PIN verified",
			"New PIN hashed",
			"Database updated",
			"Link from dashboard",
		},
		ProbeFiles: []string{"pin_change.php", "change_pin.php", "update_pin.php"},
		KeywordGrps: [][]string{
			{"password_hash", "hash", "md5"},
			{"UPDATE", "update"},
			{"pin", "password"},
		},
	},
	{
		ID:     19,
		Desc:   "Enforce daily withdrawal limits",
		Files:  []string{"transaction.php", "includes/helpers.php"},
		Weight: 2,
		Criteria: []string{
			"Function to check daily withdrawal total (last 24 hours)",
			"Realistic daily limit enforced (e.g., $5,000/day)",
			"Query sums all withdrawals within last 24 hours",
			"Rejection if current withdrawal + 24hr sum > limit",
			"Clear error message when limit exceeded",
		},
		ProbeFiles: []string{"transaction.php", "withdraw.php"},
		KeywordGrps: [][]string{
			{"SUM", "sum", "total"},
			{"daily", "day", "date"},
			{"limit", "max"},
		},
	},
	{
		ID:     20,
		Desc:   "Implement rate limiting on transfers",
		Files:  []string{"transfer.php", "api/process_transaction.php"},
		Weight: 1,
		Criteria: []string{
			"Track transfer attempts in activity_log or transactions table",
			"Limit enforced (e.g., max 10 transfers per hour)",
			"Count recent transfers before processing",
			"Error message displayed when rate limit exceeded",
			"Prevents spam/abuse of transfer feature",
		},
		ProbeFiles: []string{"transfer.php", "send.php"},
		KeywordGrps: [][]string{
			{"rate", "limit", "count"},
			{"time", "timestamp", "date"},
		},
	},
	{
		ID:     21,
		Desc:   "Add CSRF token helper functions",
		Files:  []string{"includes/helpers.php", "includes/auth.php"},
		Weight: 5,
		Criteria: []string{
			"generate_csrf_token() function creates unique token",
			"Token stored in $_SESSION",
			"validate_csrf_token($token) function verifies token",
			"csrf_token_field() returns hidden input HTML",
			"Proper implementation using random_bytes() or similar",
			"Token generated on login/session start",
		},
		ProbeFiles: []string{"helpers.php", "functions.php", "csrf.php"},
		KeywordGrps: [][]string{
			{"csrf", "token"},
			{"random_bytes", "rand", "uniqid"},
		},
	},
	{
		ID:     22,
		Desc:   "Integrate CSRF protection across all forms",
		Files:  []string{"register.php", "login.php", "transaction.php", "transfer.php", "pin_change.php", "admin/*.php"},
		Weight: 7,
		Criteria: []string{
			"CSRF tokens added to ALL state-changing forms",
			"Hidden input fields with CSRF token in each form",
			"Token validation performed before processing each form",
			"Registration, Login, Transactions, Transfers protected",
			"Admin forms and PIN change protected",
			"Proper error messages for invalid/missing tokens",
			"Prevents Cross-Site Request Forgery attacks",
		},
		ProbeFiles: []string{"register.php", "login.php", "transaction.php", "transfer.php"},
		KeywordGrps: [][]string{
			{"csrf", "token"},
			{"hidden", "input"},
		},
	},
	{
		ID:     23,
		Desc:   "Code Quality & Documentation",
		Files:  []string{"includes/helpers.php", "includes/auth.php"},
		Weight: 0,
		Criteria: []string{
			"Comprehensive doc comments for all functions",
			"Parameters, return values, and purpose documented",
			"Inline comments explain complex logic",
			"Functions have clear, descriptive names",
			"Proper indentation and code formatting",
			"Optimized database queries (prepared statements)",
			"Duplicate code refactored into reusable functions",
			"No major security vulnerabilities",
			"Business rules and assumptions documented",
		},
	},
}

var defaultCategories = []schema.Category{
	{Name: "Basic Setup & Core Features", IDs: []int{1, 2, 3, 4, 5, 6, 7}},
	{Name: "Security & Validation", IDs: []int{8, 21, 22}},
	{Name: "Transaction Features", IDs: []int{9, 10, 11, 12}},
	{Name: "Advanced Features", IDs: []int{13, 14}},
	{Name: "Admin & Logging", IDs: []int{15, 16, 17}},
	{Name: "Additional Security", IDs: []int{18, 19, 20}},
}

// DefaultCatalog returns the built-in milestone table. The data is static
// and validated at init time, so construction cannot fail.
func DefaultCatalog() *Catalog {
	cat, err := NewCatalog(defaultMilestones, defaultCategories)
	if err != nil {
		panic(err)
	}
	return cat
}
