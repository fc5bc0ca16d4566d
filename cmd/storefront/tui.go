package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type view int

const (
	viewProducts view = iota
	viewCart
	viewCheckout
	viewOrders
)

var viewNames = []string{"Products", "Cart", "Checkout", "Orders"}

type (
	productsMsg struct {
		products []domain.Product
		err      error
	}
	ordersMsg struct {
		orders []domain.Order
		err    error
	}
	placedMsg struct {
		order *domain.Order
		err   error
	}
	cartMsg domain.Cart
)

type formField struct {
	label    string
	value    *string
	required bool
}

type model struct {
	ctx context.Context
	app *app

	updates     <-chan domain.Cart
	unsubscribe func()

	view   view
	status string
	busy   bool

	products   []domain.Product
	categories []string
	category   int
	search     string
	searching  bool
	cursor     int

	cart       domain.Cart
	cartCursor int

	form      *domain.AddressForm
	fields    []formField
	fieldIdx  int
	lastOrder *domain.Order

	orders []domain.Order
}

func newModel(ctx context.Context, a *app) model {
	updates, unsubscribe := a.cart.Subscribe()
	form := &domain.AddressForm{}
	return model{
		ctx:         ctx,
		app:         a,
		updates:     updates,
		unsubscribe: unsubscribe,
		status:      "Loading products...",
		categories:  []string{service.AllCategories},
		form:        form,
		fields: []formField{
			{"Name", &form.Name, true},
			{"Phone", &form.Phone, true},
			{"Address line 1", &form.Address1, true},
			{"Address line 2", &form.Address2, false},
			{"City", &form.City, true},
			{"State", &form.State, true},
			{"Pincode", &form.Pincode, true},
			{"Delivery instructions", &form.Instructions, false},
		},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadProducts(), waitForCart(m.updates))
}

func waitForCart(updates <-chan domain.Cart) tea.Cmd {
	return func() tea.Msg {
		cart, ok := <-updates
		if !ok {
			return nil
		}
		return cartMsg(cart)
	}
}

func (m model) loadProducts() tea.Cmd {
	return func() tea.Msg {
		products, err := m.app.catalog.List(m.ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m model) loadOrders() tea.Cmd {
	return func() tea.Msg {
		orders, err := m.app.history.MyOrders(m.ctx)
		return ordersMsg{orders: orders, err: err}
	}
}

// placeOrder submits a copy of the form. The command runs off the render
// goroutine, so only Update touches m.form.
func (m model) placeOrder() tea.Cmd {
	form := &domain.AddressForm{ShippingAddress: m.form.Address()}
	return func() tea.Msg {
		order, err := m.app.checkout.PlaceOrder(m.ctx, form)
		return placedMsg{order: order, err: err}
	}
}

func (m model) visibleProducts() []domain.Product {
	return service.Filter(m.products, m.search, m.categories[m.category])
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cartMsg:
		m.cart = domain.Cart(msg)
		if m.cartCursor >= len(m.cart) {
			m.cartCursor = max(len(m.cart)-1, 0)
		}
		return m, waitForCart(m.updates)

	case productsMsg:
		if msg.err != nil {
			m.status = "Could not load products: " + msg.err.Error()
			return m, nil
		}
		m.products = msg.products
		m.categories = service.Categories(msg.products)
		m.category, m.cursor = 0, 0
		m.status = fmt.Sprintf("%d products", len(msg.products))
		return m, nil

	case ordersMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Could not load orders: " + msg.err.Error()
			return m, nil
		}
		m.orders = msg.orders
		m.status = fmt.Sprintf("%d orders", len(msg.orders))
		return m, nil

	case placedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Order failed: " + msg.err.Error()
			return m, nil
		}
		m.lastOrder = msg.order
		m.form.Reset()
		m.fieldIdx = 0
		m.status = fmt.Sprintf("Order %s placed", msg.order.ID)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.unsubscribe()
		return m, tea.Quit
	}

	typing := m.searching || m.view == viewCheckout
	if !typing {
		switch key {
		case "q":
			m.unsubscribe()
			return m, tea.Quit
		case "1", "2", "3", "4":
			return m.switchTo(view(key[0] - '1'))
		}
	}
	if key == "tab" && !m.searching && m.view != viewCheckout {
		return m.switchTo((m.view + 1) % view(len(viewNames)))
	}
	if key == "esc" && m.view == viewCheckout {
		return m.switchTo(viewCart)
	}

	switch m.view {
	case viewProducts:
		return m.productsKey(msg)
	case viewCart:
		return m.cartKey(key)
	case viewCheckout:
		return m.checkoutKey(msg)
	case viewOrders:
		if key == "r" && !m.busy {
			m.busy = true
			m.status = "Loading orders..."
			return m, m.loadOrders()
		}
	}
	return m, nil
}

func (m model) switchTo(v view) (tea.Model, tea.Cmd) {
	m.view = v
	if v == viewOrders && !m.busy {
		m.busy = true
		m.status = "Loading orders..."
		return m, m.loadOrders()
	}
	return m, nil
}

func (m model) productsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
		case tea.KeyBackspace:
			if r := []rune(m.search); len(r) > 0 {
				m.search = string(r[:len(r)-1])
			}
		case tea.KeyRunes, tea.KeySpace:
			m.search += string(msg.Runes)
		}
		m.cursor = 0
		return m, nil
	}

	visible := m.visibleProducts()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "/":
		m.searching = true
	case "c":
		m.category = (m.category + 1) % len(m.categories)
		m.cursor = 0
	case "r":
		m.status = "Loading products..."
		return m, m.loadProducts()
	case "enter", "a":
		if m.cursor >= len(visible) {
			return m, nil
		}
		p := visible[m.cursor]
		if !p.InStock() {
			m.status = p.Title + " is out of stock"
			return m, nil
		}
		m.app.cart.AddItem(m.ctx, p)
		m.status = "Added " + p.Title
	}
	return m, nil
}

func (m model) cartKey(key string) (tea.Model, tea.Cmd) {
	if len(m.cart) == 0 {
		return m, nil
	}
	id := m.cart[min(m.cartCursor, len(m.cart)-1)].ProductID
	switch key {
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < len(m.cart)-1 {
			m.cartCursor++
		}
	case "+", "=":
		m.app.cart.IncreaseQuantity(m.ctx, id)
	case "-":
		m.app.cart.DecreaseQuantity(m.ctx, id)
	case "x", "delete":
		m.app.cart.RemoveItem(m.ctx, id)
	case "C":
		m.app.cart.Clear(m.ctx)
	case "o", "enter":
		m.view = viewCheckout
		m.lastOrder = nil
	}
	return m, nil
}

func (m model) checkoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	submitRow := len(m.fields)
	switch msg.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		if m.fieldIdx > 0 {
			m.fieldIdx--
		}
	case tea.KeyDown, tea.KeyTab:
		if m.fieldIdx < submitRow {
			m.fieldIdx++
		}
	case tea.KeyEnter:
		if m.fieldIdx < submitRow {
			m.fieldIdx++
			return m, nil
		}
		m.busy = true
		m.status = "Placing order..."
		return m, m.placeOrder()
	case tea.KeyBackspace:
		if m.fieldIdx < submitRow {
			v := m.fields[m.fieldIdx].value
			if r := []rune(*v); len(r) > 0 {
				*v = string(r[:len(r)-1])
			}
		}
	case tea.KeyRunes, tea.KeySpace:
		if m.fieldIdx < submitRow {
			*m.fields[m.fieldIdx].value += string(msg.Runes)
		}
	}
	return m, nil
}

func (m model) View() string {
	b := &strings.Builder{}
	for i, name := range viewNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if view(i) == m.view {
			label = "[" + strings.TrimSpace(label) + "]"
		}
		fmt.Fprint(b, label)
	}
	fmt.Fprintf(b, "   cart: %d\n\n", len(m.cart))

	switch m.view {
	case viewProducts:
		m.viewProducts(b)
	case viewCart:
		m.viewCart(b)
	case viewCheckout:
		m.viewCheckout(b)
	case viewOrders:
		m.viewOrders(b)
	}

	fmt.Fprintf(b, "\nStatus: %s\n", m.status)
	return b.String()
}

func (m model) viewProducts(b *strings.Builder) {
	cursor := "_"
	if !m.searching {
		cursor = ""
	}
	fmt.Fprintf(b, "Search: %s%s   Category: %s\n\n", m.search, cursor, m.categories[m.category])
	visible := m.visibleProducts()
	if len(visible) == 0 {
		fmt.Fprintln(b, "  no products")
	}
	for i, p := range visible {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		stock := ""
		if !p.InStock() {
			stock = "  (out of stock)"
		}
		fmt.Fprintf(b, " %s %-32s %-12s %10.2f%s\n", marker, p.Title, p.Category, p.Price, stock)
	}
	fmt.Fprintln(b, "\nControls: up/down select, enter add, / search, c category, r reload, tab next view, q quit")
}

func (m model) viewCart(b *strings.Builder) {
	if len(m.cart) == 0 {
		fmt.Fprintln(b, "  cart is empty")
	}
	for i, l := range m.cart {
		marker := " "
		if i == m.cartCursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-32s %10.2f x %-3d %12s\n", marker, l.Title, l.Price, l.Quantity, domain.FormatAmount(l.LineTotal()))
	}
	fmt.Fprintf(b, "\n  Total: %s\n", domain.FormatAmount(m.cart.Total()))
	fmt.Fprintln(b, "\nControls: +/- quantity, x remove, C clear, o checkout, tab next view, q quit")
}

func (m model) viewCheckout(b *strings.Builder) {
	if m.lastOrder != nil {
		fmt.Fprintf(b, "  Order %s is %s, total %.2f\n\n", m.lastOrder.ID, m.lastOrder.Status, m.lastOrder.TotalAmount)
	}
	fmt.Fprintf(b, "  %d items, total %s\n\n", len(m.cart), domain.FormatAmount(m.cart.Total()))
	for i, f := range m.fields {
		marker := " "
		if i == m.fieldIdx {
			marker = ">"
		}
		req := " "
		if f.required {
			req = "*"
		}
		fmt.Fprintf(b, " %s %s%-22s %s\n", marker, req, f.label, *f.value)
	}
	marker := " "
	if m.fieldIdx == len(m.fields) {
		marker = ">"
	}
	fmt.Fprintf(b, "\n %s [ Place order ]\n", marker)
	fmt.Fprintln(b, "\nControls: type to edit, up/down or tab move, enter next/submit, esc back to cart")
}

func (m model) viewOrders(b *strings.Builder) {
	if len(m.orders) == 0 {
		fmt.Fprintln(b, "  no orders")
	}
	for _, o := range m.orders {
		placed := ""
		if !o.CreatedAt.IsZero() {
			placed = o.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(b, "  %-26s %-10s %10.2f  %s\n", o.ID, o.Status, o.TotalAmount, placed)
		for _, it := range o.Items {
			fmt.Fprintf(b, "      %s x%d\n", it.DisplayTitle(), it.Quantity)
		}
	}
	fmt.Fprintln(b, "\nControls: r reload, tab next view, q quit")
}
