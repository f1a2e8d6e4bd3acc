package workflow_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
	"github.com/mmdatafocus/gmcalc_backend/sheets"
	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func setupIntegration(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "gmcalc_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	return context.Background()
}

func TestReplaceForPeriodPreservesEarliestCreatedAt(t *testing.T) {
	ctx := setupIntegration(t)

	first := fixedClock{time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC)}
	second := fixedClock{time.Date(2025, time.April, 20, 15, 0, 0, 0, time.UTC)}

	row := func(emp string) *models.DeliveryInvestmentReport {
		return &models.DeliveryInvestmentReport{
			ProjectCode:          "P100",
			EmployeeId:           emp,
			TechnicalInvolvement: mustDecimal(t, "1"),
		}
	}

	if err := workflow.IngestStaffingRows(ctx, first, []*models.DeliveryInvestmentReport{row("E1"), row("E2")}); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if err := workflow.IngestStaffingRows(ctx, second, []*models.DeliveryInvestmentReport{row("E3")}); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	var rows []*models.DeliveryInvestmentReport
	if err := config.GetDB().Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected clean replacement, got %d rows", len(rows))
	}
	if rows[0].EmployeeId != "E3" {
		t.Errorf("unexpected survivor %q", rows[0].EmployeeId)
	}
	if !rows[0].CreatedAt.Equal(first.t) {
		t.Errorf("earliest created_at not preserved: got %v, want %v", rows[0].CreatedAt, first.t)
	}
	if !rows[0].UpdatedAt.Equal(second.t) {
		t.Errorf("updated_at not restamped: got %v, want %v", rows[0].UpdatedAt, second.t)
	}
}

func TestInterimCalculationsEndToEnd(t *testing.T) {
	ctx := setupIntegration(t)

	clock := fixedClock{time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)}
	db := config.GetDB()

	// Current-month uploads carry the March numbers.
	err := workflow.IngestStaffingRows(ctx, clock, []*models.DeliveryInvestmentReport{
		{ProjectCode: "P100", EmployeeId: "E1", TechnicalInvolvement: mustDecimal(t, "0.5")},
		{ProjectCode: "P100", EmployeeId: "E2", TechnicalInvolvement: mustDecimal(t, "1")},
		{ProjectCode: "P200", EmployeeId: "E9", TechnicalInvolvement: mustDecimal(t, "1")}, // no salary row
	})
	if err != nil {
		t.Fatalf("staffing ingest: %v", err)
	}
	err = workflow.IngestSalaryRows(ctx, clock, []*models.SalarySheet{
		{EmployeeCode: "E1", EmployeeName: "Asha Rao", DateOfJoining: time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
			CTC: mustDecimal(t, "1200000"), AdditionalCostEmployee: mustDecimal(t, "5000")},
		{EmployeeCode: "E2", EmployeeName: "Vikram Shah", DateOfJoining: time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
			CTC: mustDecimal(t, "840000"), AdditionalCostEmployee: mustDecimal(t, "0")},
	})
	if err != nil {
		t.Fatalf("salary ingest: %v", err)
	}
	err = workflow.IngestRevenueRows(ctx, clock, []*models.RevenueSheet{
		{ProjectId: "P100", ProjectName: "Atlas", Revenue: mustDecimal(t, "4000")},
	})
	if err != nil {
		t.Fatalf("revenue ingest: %v", err)
	}
	if err := db.Create(&models.USExchangeRate{Rate: mustDecimal(t, "84")}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.AdditionalCost{CostName: "Overhead", Cost: mustDecimal(t, "10")}).Error; err != nil {
		t.Fatal(err)
	}

	costResult, err := workflow.RunInterimCostCalculation(ctx, clock)
	if err != nil {
		t.Fatalf("interim cost: %v", err)
	}
	if costResult.Inserted != 2 || costResult.Dropped != 1 {
		t.Fatalf("cost result: %+v", costResult)
	}

	costRows, err := models.ListInterimCostForPeriod(db, "03/2025")
	if err != nil {
		t.Fatal(err)
	}
	if len(costRows) != 2 {
		t.Fatalf("expected 2 cost rows, got %d", len(costRows))
	}
	for _, r := range costRows {
		switch r.EmployeeId {
		case "E1":
			// (1200000/12 + 5000) / 84 * 0.5 = 625
			if !r.Salary.Equal(mustDecimal(t, "625")) {
				t.Errorf("E1 salary: got %s", r.Salary)
			}
		case "E2":
			// (840000/12) / 84 * 1 = 833.33
			if !r.Salary.Equal(mustDecimal(t, "833.33")) {
				t.Errorf("E2 salary: got %s", r.Salary)
			}
		default:
			t.Errorf("unexpected cost row for %q", r.EmployeeId)
		}
		if !r.AdditionalCost.Equal(mustDecimal(t, "10")) {
			t.Errorf("%s: additional cost %s", r.EmployeeId, r.AdditionalCost)
		}
	}

	gmResult, err := workflow.RunInterimProjectGMCalculation(ctx, clock)
	if err != nil {
		t.Fatalf("interim project gm: %v", err)
	}
	if gmResult.Inserted != 1 {
		t.Fatalf("gm result: %+v", gmResult)
	}

	gmRows, err := models.GetAllInterimProjectGM(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(gmRows) != 1 {
		t.Fatalf("expected 1 gm row, got %d", len(gmRows))
	}
	// cost = 625 + 10 + 833.33 + 10 = 1478.33
	if !gmRows[0].Cost.Equal(mustDecimal(t, "1478.33")) {
		t.Errorf("gm cost: got %s", gmRows[0].Cost)
	}
	if !gmRows[0].Revenue.Equal(mustDecimal(t, "4000")) {
		t.Errorf("gm revenue: got %s", gmRows[0].Revenue)
	}

	// Rerunning replaces rather than appends.
	if _, err := workflow.RunInterimCostCalculation(ctx, clock); err != nil {
		t.Fatal(err)
	}
	costRows, err = models.ListInterimCostForPeriod(db, "03/2025")
	if err != nil {
		t.Fatal(err)
	}
	if len(costRows) != 2 {
		t.Fatalf("rerun appended rows: got %d", len(costRows))
	}
}

func TestProjectMetricsUpsertKeepsRowIdentity(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	project := &models.Project{ProjectCode: "P100", ProjectName: "Atlas", DeliveryUnit: "DU1"}
	if err := db.Create(project).Error; err != nil {
		t.Fatal(err)
	}

	finance := []sheets.FinanceRow{
		{Month: 3, Year: 2025, EmployeeId: "E1", Revenue: mustDecimal(t, "10000")},
	}
	resources := []sheets.ResourceRow{
		{Month: 3, Year: 2025, EmployeeId: "E1", EmployeeName: "Asha Rao", TechnicalInvolvement: mustDecimal(t, "1")},
	}
	salaries := []sheets.ProjectSalaryRow{
		{Month: 3, Year: 2025, EmployeeCode: "E1", AnnualCTC: mustDecimal(t, "1200000")},
	}

	if _, err := workflow.RunProjectMetricsCalculation(ctx, project.ID, finance, resources, salaries); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var before models.EmployeeProjectCalculation
	if err := db.Take(&before).Error; err != nil {
		t.Fatal(err)
	}

	// Second run with changed revenue must update in place.
	finance[0].Revenue = mustDecimal(t, "20000")
	if _, err := workflow.RunProjectMetricsCalculation(ctx, project.ID, finance, resources, salaries); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var after []models.EmployeeProjectCalculation
	if err := db.Find(&after).Error; err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 {
		t.Fatalf("upsert duplicated rows: %d", len(after))
	}
	if after[0].ID != before.ID {
		t.Errorf("row identity changed: %d -> %d", before.ID, after[0].ID)
	}
	if !after[0].Revenue.Equal(mustDecimal(t, "20000")) {
		t.Errorf("revenue not updated: %s", after[0].Revenue)
	}

	var metrics []models.ProjectMetric
	if err := db.Find(&metrics).Error; err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 project metric, got %d", len(metrics))
	}
	if !metrics[0].TotalRevenue.Equal(mustDecimal(t, "20000")) {
		t.Errorf("metric revenue: %s", metrics[0].TotalRevenue)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("gmcalc-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := dockerRun("exec", name, "redis-cli", "ping"); err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("gmcalc-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=gmcalc_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent"); err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
