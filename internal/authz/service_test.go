package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("viewer", "/admin/orders/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"viewer"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "get")
	if err != nil || !allow {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "DELETE")
	if err != nil || allow {
		t.Fatalf("expected deny, got allow=%v err=%v", allow, err)
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{RoleOrderViewer}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/products/5", "DELETE"); allow {
		t.Fatalf("order viewer must not delete products")
	}

	if err := svc.SetAdminRoles(2, []string{RoleCatalogManager}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:catalog_manager" {
		t.Fatalf("roles want [role:catalog_manager], got=%v", roles)
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/orders", "GET"); allow {
		t.Fatalf("expected old role permission removed")
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/products/5", "DELETE"); !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestBootstrapBuiltinRolesIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapBuiltinRoles(); err != nil {
			t.Fatalf("bootstrap #%d failed: %v", i+1, err)
		}
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:admin", "role:catalog_manager", "role:order_viewer"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v got %v", want, roles)
	}

	if err := svc.SetAdminRoles(3, []string{RoleAdmin}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	for _, check := range []struct{ obj, act string }{
		{"/api/v1/admin/orders", "GET"},
		{"/api/v1/admin/orders/9/invoice", "GET"},
		{"/api/v1/admin/products/9", "DELETE"},
	} {
		allow, err := svc.EnforceAdmin(3, check.obj, check.act)
		if err != nil || !allow {
			t.Fatalf("admin should access %s %s: allow=%v err=%v", check.act, check.obj, allow, err)
		}
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestSetAdminRolesRejectsUnknownRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.SetAdminRoles(3, []string{RoleOrderViewer}); err != nil {
		t.Fatalf("set role failed: %v", err)
	}

	err := svc.SetAdminRoles(3, []string{"warehouse"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("want ErrInvalidRole, got %v", err)
	}
	roles, _ := svc.GetAdminRoles(3)
	if len(roles) != 1 {
		t.Fatalf("rejected update must keep existing roles, got=%v", roles)
	}
}
