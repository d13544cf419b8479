package mongo

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
)

var demoProducts = []models.Product{
	{
		Name:        "Fresh Bananas",
		Description: "Ripe, sweet bananas perfect for breakfast or snacking",
		Price:       2.99,
		Category:    "fruits",
		Stock:       50,
		Image:       "https://images.pexels.com/photos/2872755/pexels-photo-2872755.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Organic Apples",
		Description: "Crisp, organic red apples grown locally",
		Price:       4.49,
		Category:    "fruits",
		Stock:       30,
		Image:       "https://images.pexels.com/photos/102104/pexels-photo-102104.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Fresh Spinach",
		Description: "Baby spinach leaves, perfect for salads and cooking",
		Price:       3.99,
		Category:    "vegetables",
		Stock:       25,
		Image:       "https://images.pexels.com/photos/2325843/pexels-photo-2325843.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Organic Carrots",
		Description: "Sweet, crunchy organic carrots",
		Price:       2.79,
		Category:    "vegetables",
		Stock:       40,
		Image:       "https://images.pexels.com/photos/143133/pexels-photo-143133.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Whole Milk",
		Description: "Fresh whole milk, 1 gallon",
		Price:       3.49,
		Category:    "dairy",
		Stock:       20,
		Image:       "https://images.pexels.com/photos/236010/pexels-photo-236010.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Greek Yogurt",
		Description: "Creamy Greek yogurt, vanilla flavor",
		Price:       5.99,
		Category:    "dairy",
		Stock:       15,
		Image:       "https://images.pexels.com/photos/1435735/pexels-photo-1435735.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Fresh Bread",
		Description: "Artisan sourdough bread, baked daily",
		Price:       4.99,
		Category:    "bakery",
		Stock:       12,
		Image:       "https://images.pexels.com/photos/209206/pexels-photo-209206.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Orange Juice",
		Description: "Freshly squeezed orange juice, no pulp",
		Price:       4.79,
		Category:    "beverages",
		Stock:       18,
		Image:       "https://images.pexels.com/photos/96974/pexels-photo-96974.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Chicken Breast",
		Description: "Fresh, boneless chicken breast",
		Price:       8.99,
		Category:    "meat",
		Stock:       22,
		Image:       "https://images.pexels.com/photos/616354/pexels-photo-616354.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		Name:        "Pasta",
		Description: "Italian spaghetti pasta, 1 lb package",
		Price:       1.99,
		Category:    "pantry",
		Stock:       35,
		Image:       "https://images.pexels.com/photos/1435904/pexels-photo-1435904.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
}

func seedDemoUser(ctx context.Context, name, email, password, role string) error {
	_, err := GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = CreateUser(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	return err
}

// SeedDemoData creates the demo accounts and a starter catalog when the
// database is empty. Safe to run on every boot.
func SeedDemoData(ctx context.Context) error {
	if err := seedDemoUser(ctx, "Admin User", "admin@quickcart.com", "admin123", models.RoleAdmin); err != nil {
		return err
	}
	if err := seedDemoUser(ctx, "John Customer", "customer@quickcart.com", "customer123", models.RoleCustomer); err != nil {
		return err
	}

	count, err := CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range demoProducts {
		product := demoProducts[i]
		product.IsActive = true
		if _, err := CreateProduct(ctx, &product); err != nil {
			return err
		}
	}

	global.Log().Info("Demo data created")
	return nil
}
